package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fcurrie/serpentine-led-golang/internal/protocol"
)

// capture accepts one connection and returns every message it carried
func capture(t *testing.T) (string, <-chan []protocol.Message) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	out := make(chan []protocol.Message, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			out <- nil
			return
		}
		defer conn.Close()

		var msgs []protocol.Message
		d := protocol.NewDecoder(conn, 1<<20)
		for {
			msg, err := d.Next()
			if err != nil {
				break
			}
			msgs = append(msgs, msg)
		}
		out <- msgs
	}()
	return ln.Addr().String(), out
}

func run(t *testing.T, args ...string) []protocol.Message {
	t.Helper()
	addr, got := capture(t)

	cmd := rootCmd()
	cmd.SetArgs(append([]string{"--addr", addr}, args...))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("ledsend %v error = %v", args, err)
	}

	select {
	case msgs := <-got:
		return msgs
	case <-time.After(5 * time.Second):
		t.Fatal("no connection received")
		return nil
	}
}

func TestSetupCommand(t *testing.T) {
	msgs := run(t, "setup", "8", "32")
	if len(msgs) != 1 || msgs[0] != (protocol.Setup{Rows: 8, Cols: 32}) {
		t.Errorf("messages = %v, want one 8x32 setup", msgs)
	}
}

func TestPatternCommand(t *testing.T) {
	msgs := run(t, "pattern", "2", "--rows", "1", "--cols", "4")
	want := []protocol.Message{
		protocol.Setup{Rows: 1, Cols: 4},
		protocol.TestPattern{Code: 2},
	}
	if len(msgs) != len(want) {
		t.Fatalf("messages = %v, want %v", msgs, want)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("message %d = %v, want %v", i, msgs[i], want[i])
		}
	}
}

func TestImageCommand(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "blue.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create png: %v", err)
	}
	png.Encode(f, img)
	f.Close()

	msgs := run(t, "image", path, "--rows", "2", "--cols", "4", "--hold", "1ms")
	if len(msgs) != 2 {
		t.Fatalf("messages = %v, want setup and image", msgs)
	}
	if msgs[0] != (protocol.Setup{Rows: 2, Cols: 4}) {
		t.Errorf("first message = %v, want 2x4 setup", msgs[0])
	}
	data, ok := msgs[1].(protocol.ImageData)
	if !ok || len(data.Payload) != 24 {
		t.Fatalf("second message = %v, want 24 byte image", msgs[1])
	}
	for i := 0; i < 24; i += 3 {
		if data.Payload[i] != 0 || data.Payload[i+1] != 0 || data.Payload[i+2] != 255 {
			t.Fatalf("pixel %d = %v, want blue", i/3, data.Payload[i:i+3])
		}
	}
}

func TestParseDim(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"8", 8, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"4294967296", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDim("rows", tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseDim(%q) = %d, %v, want %d, wantErr %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestImageCommandNeedsGeometry(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"image", "x.png"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("image without --rows/--cols did not fail")
	}
}
