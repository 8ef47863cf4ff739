package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/emrgen/webmention"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	var token string
	var verbose bool

	var required = []string{"token"}

	command := &cobra.Command{
		Use:     "status",
		Short:   "show the status of a webmention",
		Example: "webmention status --token <token>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			cfg := readContext()
			client, err := webmention.NewClient(cfg.GrpcAddr, cfg.RedisAddr)
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			status, err := client.Status(ctx, token)
			if err != nil {
				logrus.Error(err)
				return
			}
			if status == nil {
				color.Red("no webmention found for %s", token)
				return
			}

			resultColor(status.Status).Printf("%s\n", status.Status)
			printField("source", status.Source)
			printField("target", status.Target)
			if status.Summary != "" {
				printField("summary", status.Summary)
			}
			if status.Private != nil {
				printField("private", fmt.Sprint(*status.Private))
			}

			if verbose && status.Data != nil {
				data, err := json.MarshalIndent(status.Data, "", "  ")
				if err != nil {
					logrus.Error(err)
					return
				}
				fmt.Println(string(data))
			}
		},
	}

	command.Flags().StringVar(&token, "token", "", "webmention token (required)")
	command.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the jf2 data")

	return command
}
