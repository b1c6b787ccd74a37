// Command snapshot renders a room's persisted scene to a PNG or PDF file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Abhijitam01/drawr/internal/export"
	"github.com/Abhijitam01/drawr/internal/infra/discovery"
	"github.com/Abhijitam01/drawr/internal/syncclient"
)

type options struct {
	server      string
	room        string
	out         string
	token       string
	scale       float64
	transparent bool
	discover    bool
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.server, "server", "http://localhost:8080", "server base URL")
	flag.StringVar(&opts.room, "room", "", "room id (required)")
	flag.StringVar(&opts.out, "out", "scene.png", "output file; .png or .pdf")
	flag.StringVar(&opts.token, "token", os.Getenv("DRAWR_TOKEN"), "bearer token (default $DRAWR_TOKEN)")
	flag.Float64Var(&opts.scale, "scale", 1, "PNG pixels per world unit")
	flag.BoolVar(&opts.transparent, "transparent", false, "skip the background fill")
	flag.BoolVar(&opts.discover, "discover", false, "find the server on the local network via mDNS")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := run(ctx, opts); err != nil {
		logrus.Fatalf("snapshot: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.room == "" {
		return errors.New("-room is required")
	}
	format := strings.ToLower(filepath.Ext(opts.out))
	if format != ".png" && format != ".pdf" {
		return fmt.Errorf("unsupported output format %q", format)
	}

	if opts.discover {
		addrs, err := discovery.Browse(3 * time.Second)
		if err != nil {
			logrus.WithError(err).Warn("mDNS browse failed")
		}
		if len(addrs) == 0 {
			return errors.New("no server found on the local network")
		}
		opts.server = "http://" + addrs[0]
		logrus.WithField("server", opts.server).Info("Discovered server")
	}

	shapes, err := syncclient.SceneFetcher{BaseURL: opts.server, Token: opts.token}.Fetch(ctx, opts.room)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	exportOpts := export.Options{Scale: opts.scale, Transparent: opts.transparent}
	if format == ".pdf" {
		err = export.WritePDF(f, shapes, exportOpts)
	} else {
		err = export.WritePNG(f, shapes, exportOpts)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}

	logrus.WithFields(logrus.Fields{"room_id": opts.room, "shapes": len(shapes), "out": opts.out}).Info("Snapshot written")
	return nil
}
