package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/emrgen/webmention/internal/config"
	"github.com/emrgen/webmention/internal/mention"
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/server"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func processCmd() *cobra.Command {
	var username string
	var source string
	var target string
	var code string

	var required = []string{"username", "source", "target"}

	command := &cobra.Command{
		Use:     "process",
		Short:   "verify one webmention now",
		Long:    `run a webmention through the pipeline without queueing it`,
		Example: "webmention process -u <username> -s <source> -t <target>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			app, err := server.NewApp(config.LoadConfig())
			if err != nil {
				logrus.Error(err)
				return
			}
			defer app.Close()

			req := &mention.Request{
				Username:     username,
				Source:       source,
				Target:       target,
				Protocol:     model.ProtocolWebmention,
				Token:        uuid.NewString(),
				Code:         code,
				EndpointType: model.EndpointTypeAccount,
			}

			link, result := app.Service.Process(context.Background(), req)
			printField("token", req.Token)
			resultColor(result).Printf("%s\n", result)

			if link == nil {
				status, err := app.Status.GetStatus(context.Background(), req.Token)
				if err == nil && status != nil && status.Summary != "" {
					printField("summary", status.Summary)
				}
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Type", "Direct", "Author", "URL"})
			table.Append([]string{
				strconv.FormatUint(uint64(link.ID), 10),
				link.Type,
				strconv.FormatBool(link.IsDirect),
				link.AuthorName,
				link.AbsoluteURL(),
			})
			table.Render()
		},
	}

	command.Flags().StringVarP(&username, "username", "u", "", "account username (required)")
	command.Flags().StringVarP(&source, "source", "s", "", "source url (required)")
	command.Flags().StringVarP(&target, "target", "t", "", "target url (required)")
	command.Flags().StringVarP(&code, "code", "c", "", "private webmention code")

	command.Flags().SortFlags = false

	return command
}
