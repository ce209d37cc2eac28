package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardfreezer/cmd/app/commands"
	"github.com/allisson/cardfreezer/internal/app"
)

func getCardCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt",
			Usage: "Print the storage form of a single card attribute",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "attr",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Attribute label or numeric id (e.g., card_number, expireMonth, 3)",
				},
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Plain value",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(cmd, func(container *app.Container) error {
					st, err := container.NewStore(ctx)
					if err != nil {
						return err
					}
					return commands.RunEncrypt(st, commands.DefaultIO().Writer, cmd.String("attr"), cmd.String("value"))
				})
			},
		},
		{
			Name:  "encrypt-secure-store",
			Usage: "Pack card number and expiration into a single secure-store value",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "number",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Card number",
				},
				&cli.StringFlag{
					Name:     "month",
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "Expiration month",
				},
				&cli.StringFlag{
					Name:     "year",
					Aliases:  []string{"y"},
					Required: true,
					Usage:    "Expiration year (four digits)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(cmd, func(container *app.Container) error {
					st, err := container.NewStore(ctx)
					if err != nil {
						return err
					}
					return commands.RunEncryptSecureStore(
						st,
						commands.DefaultIO().Writer,
						cmd.String("number"),
						cmd.String("month"),
						cmd.String("year"),
					)
				})
			},
		},
		{
			Name:  "decrypt",
			Usage: "Print the plain value of a stored card attribute",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "attr",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Attribute label or numeric id (e.g., card_number, secure_store)",
				},
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Stored value (base64(iv)|base64(ciphertext))",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(cmd, func(container *app.Container) error {
					st, err := container.NewStore(ctx)
					if err != nil {
						return err
					}
					return commands.RunDecrypt(
						st,
						commands.DefaultIO().Writer,
						cmd.String("attr"),
						cmd.String("value"),
						cmd.String("format"),
					)
				})
			},
		},
	}
}
