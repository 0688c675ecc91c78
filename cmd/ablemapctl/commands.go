package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/ablemap/ablemap/internal/client"
	"github.com/ablemap/ablemap/internal/identity"
	"github.com/ablemap/ablemap/internal/logger"
)

// env is what every command needs: the API, the session and a cache bound to both.
type env struct {
	api     *client.APIClient
	session *client.FileSession
	cache   *client.Cache
}

func newEnv(c *cli.Context) (*env, error) {
	session, err := client.OpenFileSession(c.String("session"))
	if err != nil {
		return nil, err
	}
	api := client.NewAPIClient(c.String("server"), nil)

	log := logger.NewNop()
	if c.Bool("verbose") {
		log = logger.New("debug", true)
	}
	cache := client.NewCache(api, session,
		client.WithLogger(log),
		client.WithRequestTimeout(c.Duration("timeout")),
		client.WithAuthLostHandler(func() {
			fmt.Fprintln(os.Stderr, "⚠️  credential rejected, run `ablemapctl login` again")
		}),
	)
	return &env{api: api, session: session, cache: cache}, nil
}

// requestCtx bounds one-off API calls that don't go through the cache.
func requestCtx(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, c.Duration("timeout"))
}

func credential(e *env) (string, error) {
	cred, ok := e.session.Credential()
	if !ok {
		return "", errors.New("not logged in, run `ablemapctl login <token>` first")
	}
	return cred, nil
}

func login(c *cli.Context) error {
	token := strings.TrimSpace(c.Args().First())
	if token == "" {
		return cli.Exit("usage: ablemapctl login <token>", 2)
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestCtx(c)
	defer cancel()
	u, created, err := e.api.Provision(ctx, token)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := e.session.SetCredential(token); err != nil {
		return err
	}

	if created {
		fmt.Printf("✅ welcome %s (user #%d)\n", u.Nickname, u.ID)
	} else {
		fmt.Printf("✅ logged in as %s (user #%d)\n", u.Nickname, u.ID)
	}
	return nil
}

func logout(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	if err := e.cache.HandleAuthChange(c.Context, false); err != nil {
		return err
	}
	if err := e.session.Clear(); err != nil {
		return err
	}
	fmt.Println("👋 logged out")
	return nil
}

func issueToken(c *cli.Context) error {
	p := identity.NewJWTProvider(c.String("secret"), c.String("issuer"))
	tok, err := p.IssueToken(c.String("subject"), c.String("nickname"), c.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

func me(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	cred, err := credential(e)
	if err != nil {
		return err
	}

	ctx, cancel := requestCtx(c)
	defer cancel()
	u, err := e.api.Me(ctx, cred)
	if err != nil {
		return err
	}
	fmt.Printf("#%d %s (%s:%s)\n", u.ID, u.Nickname, u.AuthProvider, u.AuthProviderID)
	return nil
}

func list(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	if err := e.cache.Refresh(c.Context); err != nil {
		return err
	}
	printBookmarks(e.cache.Bookmarks())
	return nil
}

func printBookmarks(list []client.Bookmark) {
	if len(list) == 0 {
		fmt.Println("no bookmarks yet")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POI\tNAME\tSAVED BY\tUPDATED")
	for _, b := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", b.PlaceID, b.PlaceName, len(b.UserIDs), b.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

func add(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: ablemapctl add <poiId> <placeName>", 2)
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	placeID := c.Args().Get(0)
	placeName := strings.Join(c.Args().Slice()[1:], " ")
	err = e.cache.Add(c.Context, placeID, placeName)
	if errors.Is(err, client.ErrAlreadyBookmarked) {
		fmt.Printf("ℹ️  %s is already bookmarked\n", placeName)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("⭐ bookmarked %s (%d total)\n", placeName, e.cache.Count())
	return nil
}

func remove(c *cli.Context) error {
	placeID := c.Args().First()
	if placeID == "" {
		return cli.Exit("usage: ablemapctl remove <poiId>", 2)
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	if err := e.cache.Remove(c.Context, placeID, placeID); err != nil {
		return err
	}
	fmt.Printf("🗑  removed %s (%d left)\n", placeID, e.cache.Count())
	return nil
}

func status(c *cli.Context) error {
	placeID := c.Args().First()
	if placeID == "" {
		return cli.Exit("usage: ablemapctl status <poiId>", 2)
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	cred, _ := e.session.Credential()
	ctx, cancel := requestCtx(c)
	defer cancel()
	ok, err := e.api.BookmarkStatus(ctx, cred, placeID)
	if err != nil {
		return err
	}
	fmt.Println(ok)
	return nil
}

func report(c *cli.Context) error {
	placeID := c.Args().First()
	if placeID == "" {
		return cli.Exit("usage: ablemapctl report <poiId>", 2)
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestCtx(c)
	defer cancel()
	r, err := e.api.Accessibility(ctx, placeID)
	if errors.Is(err, client.ErrNotFound) {
		fmt.Println("no accessibility report for this place")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d/100)\n%s\n", r.PlaceName, r.Score, r.Summary)
	fmt.Printf("stairs: %d, ramp: %t, accessible entrance: %t\n",
		r.AIAnalysis.StairsCount, r.AIAnalysis.HasRamp, r.AIAnalysis.EntranceAccessible)
	for _, o := range r.HighlightedObstacles {
		fmt.Printf("  ⚠️  %s\n", o)
	}
	for _, rec := range r.Recommendations {
		fmt.Printf("  → %s\n", rec)
	}
	return nil
}

func feedback(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}

	cred, _ := e.session.Credential()
	ctx, cancel := requestCtx(c)
	defer cancel()
	id, err := e.api.SendFeedback(ctx, cred, client.Feedback{
		SatisfactionLevel: c.String("level"),
		FeedbackDetails:   c.StringSlice("detail"),
		DeviceID:          e.session.DeviceID(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("🙏 thanks! feedback #%d recorded\n", id)
	return nil
}
