package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardfreezer/cmd/app/commands"
	"github.com/allisson/cardfreezer/internal/app"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-pass-key",
			Usage: "Generate a random pass key, optionally wrapped with a KMS key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI (e.g., base64key://, awskms:///alias/..., gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(cmd, func(container *app.Container) error {
					return commands.RunGeneratePassKey(
						ctx,
						container.PassKeyLoader(),
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("kms-key-uri"),
					)
				})
			},
		},
	}
}
