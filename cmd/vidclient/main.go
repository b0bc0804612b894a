package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-video-client/client"
	"github.com/jrsteele09/go-video-client/internal/config"
	"github.com/jrsteele09/go-video-client/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: vidclient <command> [flags]

commands:
  signup    -name NAME -email EMAIL -password PASSWORD
  login     -email EMAIL -password PASSWORD
  logout
  me
  dashboard
  play      VIDEO_ID
  watch     -event EVENT -position SECONDS VIDEO_ID
`

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(config.GetEnv("LOG_LEVEL", "warn"))
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		stop()
		log.Error().Err(err).Msg(os.Args[1] + " failed")
		if errors.Is(err, session.ErrSessionExpired) || errors.Is(err, session.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "not logged in, run: vidclient login")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	cfg := config.NewClient()
	store, closeStore, err := client.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("failed to close credential store")
		}
	}()

	c := client.New(cfg, store)
	if _, err := c.Resume(ctx); err != nil {
		return err
	}

	switch command {
	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		name := fs.String("name", "", "Display name")
		email := fs.String("email", "", "Account email")
		password := fs.String("password", "", "Account password")
		_ = fs.Parse(args)
		if *name == "" || *email == "" || *password == "" {
			return errors.New("-name, -email and -password are required")
		}
		if err := c.Signup(ctx, *name, *email, *password); err != nil {
			return err
		}
		fmt.Println("signed up and logged in")

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "Account email")
		password := fs.String("password", "", "Account password")
		_ = fs.Parse(args)
		if *email == "" || *password == "" {
			return errors.New("-email and -password are required")
		}
		if err := c.Login(ctx, *email, *password); err != nil {
			return err
		}
		fmt.Println("logged in")

	case "logout":
		c.Logout(ctx)
		fmt.Println("logged out")

	case "me":
		profile, err := c.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(profile)

	case "dashboard":
		videos, err := c.Dashboard(ctx)
		if err != nil {
			return err
		}
		return printJSON(videos)

	case "play":
		if len(args) != 1 {
			return errors.New("play takes exactly one VIDEO_ID")
		}
		streamURL, err := c.Play(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Println(streamURL)

	case "watch":
		fs := flag.NewFlagSet("watch", flag.ExitOnError)
		event := fs.String("event", "progress", "Watch event: start, progress, resume, ...")
		position := fs.Float64("position", 0, "Playback position in seconds")
		_ = fs.Parse(args)
		if fs.NArg() != 1 {
			return errors.New("watch takes exactly one VIDEO_ID")
		}
		offset := time.Duration(*position * float64(time.Second))
		if err := c.ReportWatch(ctx, fs.Arg(0), *event, offset); err != nil {
			return err
		}
		fmt.Println("recorded")

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
