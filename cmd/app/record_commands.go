package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardfreezer/cmd/app/commands"
	"github.com/allisson/cardfreezer/internal/app"
	"github.com/allisson/cardfreezer/internal/card/record"
)

func secureStoreFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "secure-store",
		Aliases: []string{"s"},
		Value:   false,
		Usage:   "Pack number and expiration into a single secure_store field",
	}
}

func getRecordCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "seal",
			Usage: "Read a plain JSON record from stdin and write its storage form",
			Flags: []cli.Flag{secureStoreFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(cmd, func(container *app.Container) error {
					sealer, err := container.Sealer(ctx)
					if err != nil {
						return err
					}
					return commands.RunSeal(sealer, commands.DefaultIO(), cmd.Bool("secure-store"))
				})
			},
		},
		{
			Name:  "unseal",
			Usage: "Read a stored JSON record from stdin and write its plain form",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(cmd, func(container *app.Container) error {
					sealer, err := container.Sealer(ctx)
					if err != nil {
						return err
					}
					return commands.RunUnseal(sealer, commands.DefaultIO())
				})
			},
		},
		{
			Name:  "seal-batch",
			Usage: "Seal JSON-lines records from stdin concurrently, preserving order",
			Flags: []cli.Flag{secureStoreFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(cmd, func(container *app.Container) error {
					sealer, err := container.Sealer(ctx)
					if err != nil {
						return err
					}
					batch, err := container.NewBatch(record.SealProcessor(sealer, cmd.Bool("secure-store")))
					if err != nil {
						return err
					}
					return commands.RunBatch(ctx, batch, container.Logger(), commands.DefaultIO(), "seal")
				})
			},
		},
		{
			Name:  "unseal-batch",
			Usage: "Unseal JSON-lines records from stdin concurrently, preserving order",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(cmd, func(container *app.Container) error {
					sealer, err := container.Sealer(ctx)
					if err != nil {
						return err
					}
					batch, err := container.NewBatch(record.UnsealProcessor(sealer))
					if err != nil {
						return err
					}
					return commands.RunBatch(ctx, batch, container.Logger(), commands.DefaultIO(), "unseal")
				})
			},
		},
		{
			Name:  "rotate-batch",
			Usage: "Re-encrypt stored JSON-lines records from stdin under a new pass key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "new-pass-key",
					Usage: "New raw pass key",
				},
				&cli.StringFlag{
					Name:  "new-pass-key-ciphertext",
					Usage: "New pass key wrapped by the KMS key at --new-kms-key-uri (base64)",
				},
				&cli.StringFlag{
					Name:  "new-kms-key-uri",
					Usage: "KMS key URI wrapping the new pass key (defaults to KMS_KEY_URI)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(cmd, func(container *app.Container) error {
					kmsKeyURI := cmd.String("new-kms-key-uri")
					if kmsKeyURI == "" {
						kmsKeyURI = container.Config().KMSKeyURI
					}
					newKey, err := commands.LoadNewPassKey(
						ctx,
						container.PassKeyLoader(),
						cmd.String("new-pass-key"),
						cmd.String("new-pass-key-ciphertext"),
						kmsKeyURI,
					)
					if err != nil {
						return err
					}

					sealer, err := container.Sealer(ctx)
					if err != nil {
						return err
					}
					batch, err := container.NewBatch(record.RotateProcessor(sealer, newKey))
					if err != nil {
						return err
					}
					return commands.RunBatch(ctx, batch, container.Logger(), commands.DefaultIO(), "rotate")
				})
			},
		},
	}
}
