package printer_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sangkips/dairy-coop-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// DOCUMENT
// =============================================================================

func TestDocument_StartsWithInitAndClampsWidth(t *testing.T) {
	doc := printer.NewDocument(10)

	assert.Equal(t, printer.Width58mm, doc.Width())
	assert.True(t, bytes.HasPrefix(doc.Bytes(), []byte{printer.ESC, '@'}))
}

func TestDocument_KeyValueJustifiesToWidth(t *testing.T) {
	doc := printer.NewDocument(printer.Width58mm)
	doc.LineFeed().KeyValue("TOTAL:", "1120.00")

	line := lastLine(doc.Bytes())
	assert.Len(t, line, printer.Width58mm)
	assert.True(t, strings.HasPrefix(line, "TOTAL:"))
	assert.True(t, strings.HasSuffix(line, "1120.00"))
}

func TestDocument_TextIsClipped(t *testing.T) {
	doc := printer.NewDocument(printer.Width58mm)
	doc.LineFeed().Text(strings.Repeat("x", 60))

	assert.Len(t, lastLine(doc.Bytes()), printer.Width58mm)
}

func TestDocument_ItemLineKeepsTotalVisible(t *testing.T) {
	doc := printer.NewDocument(printer.Width58mm)
	doc.ItemLine("Cow Milk 1L", "12345678.000", "12345678.00", "152415765279.00")

	line := lastLine(doc.Bytes())
	assert.Len(t, line, printer.Width58mm)
	assert.True(t, strings.HasSuffix(line, "152415765279.00"))
}

func TestDocument_PartialCut(t *testing.T) {
	doc := printer.NewDocument(printer.Width80mm).PartialCut()

	assert.True(t, bytes.HasSuffix(doc.Bytes(), []byte{printer.GS, 'V', 0x01}))
}

// =============================================================================
// PRINTERS
// =============================================================================

func TestNew_SelectsPrinterByType(t *testing.T) {
	p, err := printer.New(printer.TypeNone, "", "")
	require.NoError(t, err)
	assert.False(t, p.IsConnected(context.Background()))
	assert.NoError(t, p.Print(context.Background(), []byte("ignored")))

	_, err = printer.New(printer.TypeUSB, "", "")
	assert.Error(t, err)
	_, err = printer.New(printer.TypeNetwork, "", "")
	assert.Error(t, err)
	_, err = printer.New("bluetooth", "", "")
	assert.Error(t, err)
}

func TestUSBPrinter_WritesToDeviceFile(t *testing.T) {
	// GIVEN: a regular file standing in for /dev/usb/lp0
	path := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	p := printer.NewUSBPrinter(path)

	// WHEN
	require.NoError(t, p.Print(context.Background(), []byte("receipt")))

	// THEN
	assert.True(t, p.IsConnected(context.Background()))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "receipt", string(got))
}

func TestNetworkPrinter_SendsRawBytes(t *testing.T) {
	// GIVEN: a listener playing the printer's raw port
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	// WHEN
	p := printer.NewNetworkPrinter(ln.Addr().String())
	require.NoError(t, p.Print(context.Background(), []byte{printer.ESC, '@', 'h', 'i'}))

	// THEN
	assert.Equal(t, []byte{printer.ESC, '@', 'h', 'i'}, <-received)
}

func TestNetworkPrinter_UnreachableIsNotConnected(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	p := printer.NewNetworkPrinter(addr)

	assert.False(t, p.IsConnected(context.Background()))
	assert.Error(t, p.Print(context.Background(), []byte("x")))
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	return lines[len(lines)-1]
}
