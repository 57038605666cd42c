package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardvault/cmd/app/commands"
	"github.com/allisson/cardvault/internal/app"
	"github.com/allisson/cardvault/internal/config"
)

func getCardCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "expire-cards",
			Usage: "Mark every card past its expiry date as EXPIRED",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				cardUseCase, err := container.CardUseCase(ctx)
				if err != nil {
					return err
				}

				return commands.RunExpireCards(
					ctx,
					cardUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "reveal-card-number",
			Usage: "Decrypt and print the full number of a card",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "card-id",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Card ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "owner-id",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Owner user ID (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				cardUseCase, err := container.CardUseCase(ctx)
				if err != nil {
					return err
				}

				return commands.RunRevealCardNumber(
					ctx,
					cardUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("card-id"),
					cmd.String("owner-id"),
				)
			},
		},
		{
			Name:  "create-encryption-secret",
			Usage: "Generate a card encryption secret, optionally wrapped by a KMS key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Aliases: []string{"k"},
					Usage:   "gocloud.dev secrets URI (e.g., awskms:///alias/..., base64key://...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())

				return commands.RunCreateEncryptionSecret(
					ctx,
					container.KMSService(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
