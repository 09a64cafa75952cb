package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dreitier/releasegate/cache"
	"github.com/dreitier/releasegate/config"
	"github.com/dreitier/releasegate/schedule"
	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
)

const app = "releasegate"

var gitRepo = "dreitier/releasegate"
var gitCommit = "unknown"
var gitTag = "unknown"

func printVersion() {
	if gitTag == "" {
		gitTag = "err-no-git-tag"
	}

	log.Printf("%s (dist=%s; version=%s; commit=%s)", app, gitRepo, gitTag, gitCommit)
}

func main() {
	configureLogrus()

	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func configureLogrus() {
	customFormatter := new(log.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	log.SetFormatter(customFormatter)
}

// applyLogLevel uses the configured log level unless debugging has been forced on the command line.
func applyLogLevel(cfg *config.Configuration) {
	if debug {
		log.SetLevel(log.DebugLevel)
		return
	}

	log.SetLevel(cfg.Global().LogLevel())
}

// configureTerminal lets the operator invalidate the cache by pressing r or Ctrl+R and quit with q or ESC.
func configureTerminal(manager *cache.Manager, quit context.CancelFunc) {
	if background {
		return
	}

	// @see https://github.com/nsf/termbox-go/blob/master/_demos/raw_input.go
	err := termbox.Init()

	if err != nil {
		log.Warnf("Unable to run in interactive mode: %s", err)
		return
	}

	go func() {
		defer termbox.Close()

		for {
			var current string
			var data [64]byte

			// we have to poll the raw events; normal events don't include escape sequences
			switch ev := termbox.PollRawEvent(data[:]); ev.Type {
			case termbox.EventRaw:
				d := data[:ev.N]
				current = fmt.Sprintf("%q", d)

				switch current {
				case `"\x12"` /* Ctrl+R */, `"r"`:
					log.Printf("Forcing reload...")
					manager.Invalidate()
				case `"\x1b"` /* ESC */, `"q"`:
					log.Printf("Exiting...")
					quit()
					return
				}
			case termbox.EventError:
				log.Errorf("Terminal input failed, disabling interactive mode: %s", ev.Err)
				return
			}
		}
	}()
}

func scheduleInvalidation(ctx context.Context, cfg *config.CacheConfiguration, manager *cache.Manager) {
	if cfg.InvalidateSchedule == nil {
		return
	}

	log.Infof("Cache will additionally be invalidated on schedule %q", cfg.InvalidateScheduleExpression)

	go schedule.Every(ctx, cfg.InvalidateSchedule, manager.Invalidate)
}
