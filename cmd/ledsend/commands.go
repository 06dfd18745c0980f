package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fcurrie/serpentine-led-golang/internal/imageload"
	"github.com/fcurrie/serpentine-led-golang/internal/protocol"
)

const defaultDialTimeout = 5 * time.Second

type sendOptions struct {
	addr    string
	timeout time.Duration
}

func (o *sendOptions) dial() (net.Conn, *protocol.Client, error) {
	conn, err := net.DialTimeout("tcp", o.addr, o.timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", o.addr, err)
	}
	return conn, protocol.NewClient(conn), nil
}

// =============================================================================
// ledsend setup
// =============================================================================

func setupCmd(opts *sendOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup ROWS COLS",
		Short: "Configure the matrix geometry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseDim("rows", args[0])
			if err != nil {
				return err
			}
			cols, err := parseDim("cols", args[1])
			if err != nil {
				return err
			}

			conn, client, err := opts.dial()
			if err != nil {
				return err
			}
			defer conn.Close()
			return client.Setup(rows, cols)
		},
	}
}

// =============================================================================
// ledsend image
// =============================================================================

func imageCmd(opts *sendOptions) *cobra.Command {
	var (
		rows, cols uint32
		hold       time.Duration
		noSetup    bool
	)

	cmd := &cobra.Command{
		Use:   "image FILE",
		Short: "Show a PNG, JPEG, GIF or SVG file",
		Long: `Show a PNG, JPEG, GIF or SVG file scaled to the matrix.

The connection stays open for --hold; 0 waits until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows == 0 || cols == 0 {
				return fmt.Errorf("--rows and --cols are required")
			}
			payload, err := imageload.Load(args[0], int(rows), int(cols))
			if err != nil {
				return err
			}

			conn, client, err := opts.dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			if !noSetup {
				if err := client.Setup(rows, cols); err != nil {
					return err
				}
			}
			if err := client.Image(payload); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %s as %dx%d frame\n", args[0], rows, cols)
			return holdOpen(cmd.Context(), hold)
		},
	}
	cmd.Flags().Uint32VarP(&rows, "rows", "r", 0, "matrix rows")
	cmd.Flags().Uint32VarP(&cols, "cols", "c", 0, "matrix columns")
	cmd.Flags().DurationVar(&hold, "hold", 0, "how long to keep the frame lit (0 = until interrupted)")
	cmd.Flags().BoolVar(&noSetup, "no-setup", false, "reuse the geometry already configured on the server")
	return cmd
}

// =============================================================================
// ledsend pattern
// =============================================================================

func patternCmd(opts *sendOptions) *cobra.Command {
	var rows, cols uint32

	cmd := &cobra.Command{
		Use:   "pattern CODE",
		Short: "Run a built-in test pattern",
		Long: `Run a built-in test pattern.

Codes:
  1  red, blue, green fill
  2  rainbow sweep`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid pattern code %q", args[0])
			}

			conn, client, err := opts.dial()
			if err != nil {
				return err
			}
			defer conn.Close()

			if rows != 0 && cols != 0 {
				if err := client.Setup(rows, cols); err != nil {
					return err
				}
			}
			return client.TestPattern(uint32(code))
		},
	}
	cmd.Flags().Uint32VarP(&rows, "rows", "r", 0, "send a setup with these rows first")
	cmd.Flags().Uint32VarP(&cols, "cols", "c", 0, "send a setup with these columns first")
	return cmd
}

func parseDim(name, s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return uint32(v), nil
}

func holdOpen(ctx context.Context, hold time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if hold > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, hold)
		defer cancel()
	}
	<-ctx.Done()
	return nil
}
