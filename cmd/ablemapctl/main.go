package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ablemap/ablemap/internal/client"
	"github.com/ablemap/ablemap/internal/version"
)

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ablemap", "session.json")
}

func main() {
	cliApp := &cli.App{
		Name:    "ablemapctl",
		Usage:   "manage AbleMap bookmarks from the terminal",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "AbleMap API base URL",
				Value:   "http://localhost:8080",
				EnvVars: []string{"ABLEMAP_SERVER"},
			},
			&cli.StringFlag{
				Name:    "session",
				Usage:   "session file holding the credential",
				Value:   defaultSessionPath(),
				EnvVars: []string{"ABLEMAP_SESSION"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per request timeout",
				Value: client.DefaultRequestTimeout,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log cache activity to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "login",
				Usage:     "store a provider access token and link it to a user",
				ArgsUsage: "<token>",
				Action:    login,
			},
			{
				Name:   "logout",
				Usage:  "forget the stored credential",
				Action: logout,
			},
			{
				Name:  "issue-token",
				Usage: "sign a development token for a server running ABLEMAP_AUTH_PROVIDER=jwt",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "secret", Required: true, EnvVars: []string{"ABLEMAP_JWT_SECRET"}},
					&cli.StringFlag{Name: "issuer", EnvVars: []string{"ABLEMAP_JWT_ISSUER"}},
					&cli.StringFlag{Name: "subject", Required: true, Usage: "provider user id"},
					&cli.StringFlag{Name: "nickname"},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
				},
				Action: issueToken,
			},
			{
				Name:   "me",
				Usage:  "show the signed-in user",
				Action: me,
			},
			{
				Name:   "list",
				Usage:  "list your bookmarks",
				Action: list,
			},
			{
				Name:      "add",
				Usage:     "bookmark a place",
				ArgsUsage: "<poiId> <placeName>",
				Action:    add,
			},
			{
				Name:      "remove",
				Usage:     "remove a bookmark",
				ArgsUsage: "<poiId>",
				Action:    remove,
			},
			{
				Name:      "status",
				Usage:     "tell whether a place is bookmarked",
				ArgsUsage: "<poiId>",
				Action:    status,
			},
			{
				Name:      "report",
				Usage:     "show the accessibility report of a place",
				ArgsUsage: "<poiId>",
				Action:    report,
			},
			{
				Name:  "feedback",
				Usage: "send a satisfaction vote",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "level", Required: true, Usage: "satisfied | dissatisfied"},
					&cli.StringSliceFlag{Name: "detail", Usage: "free text detail, repeatable"},
				},
				Action: feedback,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatalf("❌ %v", err)
	}
}
