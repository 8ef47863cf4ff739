package cmd

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emrgen/webmention/internal/config"
	"github.com/emrgen/webmention/internal/store"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func linksCmd() *cobra.Command {
	var username string
	var target string

	var required = []string{"username", "target"}

	command := &cobra.Command{
		Use:     "links",
		Short:   "list the verified links of a page",
		Example: "webmention links -u <username> -t <target>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			u, err := url.Parse(target)
			if err != nil {
				color.Red("invalid target: %v", err)
				return
			}

			ctx := context.Background()
			db := config.GetDb(config.LoadConfig())
			links := store.NewGormStore(db)

			account, err := links.FindAccountByUsername(ctx, username)
			if err != nil {
				logrus.Error(err)
				return
			}
			site, err := links.FindSite(ctx, account.ID, strings.ToLower(u.Hostname()))
			if err != nil {
				logrus.Error(err)
				return
			}
			page, err := links.FindPage(ctx, site.ID, target)
			if errors.Is(err, store.ErrNotFound) {
				color.Yellow("no webmentions for %s", target)
				return
			}
			if err != nil {
				logrus.Error(err)
				return
			}

			list, err := links.ListLinks(ctx, page.ID)
			if err != nil {
				logrus.Error(err)
				return
			}

			printField("page", page.Href)
			if page.Name != "" {
				printField("name", page.Name)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Type", "Direct", "Private", "Author", "Source", "Updated"})
			for _, link := range list {
				table.Append([]string{
					strconv.FormatUint(uint64(link.ID), 10),
					link.Type,
					strconv.FormatBool(link.IsDirect),
					strconv.FormatBool(link.IsPrivate),
					link.AuthorName,
					link.Source(),
					link.UpdatedAt.Format(time.RFC3339),
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&username, "username", "u", "", "account username (required)")
	command.Flags().StringVarP(&target, "target", "t", "", "target url (required)")

	command.Flags().SortFlags = false

	return command
}
