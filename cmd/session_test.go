package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/smartbill/internal/config"
	"github.com/ginjaninja78/smartbill/internal/printer"
	"github.com/ginjaninja78/smartbill/internal/session"
	"github.com/ginjaninja78/smartbill/pkg/utils"
)

func runScript(t *testing.T, script string, devices ...printer.Device) (*session.Session, string) {
	t.Helper()
	sess := session.New(session.Options{
		Config:  config.Default(),
		Printer: printer.New(printer.DefaultLayout, nil, devices...),
		Clock:   func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) },
	})

	var out bytes.Buffer
	r := newREPL(sess, strings.NewReader(script), &out, "₹")
	if err := r.run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return sess, out.String()
}

func TestREPL_BuildBill(t *testing.T) {
	sess, out := runScript(t, strings.Join([]string{
		"customer Asha Rao",
		"add Blue Pen 10.00 3",
		"name Notebook",
		"price 50",
		"qty 2",
		"add",
		"discount 10",
		"tax 5",
		"preview",
		"exit",
		"y",
	}, "\n"))

	if len(sess.Items()) != 2 {
		t.Fatalf("expected 2 items, got %d\n%s", len(sess.Items()), out)
	}
	if sess.Items()[0].Name != "Blue Pen" {
		t.Errorf("multi-word name not joined: %q", sess.Items()[0].Name)
	}
	for _, want := range []string{"Customer: Asha Rao", "Added: Notebook", "GRAND TOTAL:", "123.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestREPL_ErrorsAreInline(t *testing.T) {
	sess, out := runScript(t, strings.Join([]string{
		"remove",
		"add Pen -5 2",
		"add Pen 5",
		"export",
		"bogus",
		"add Pen 5 2",
	}, "\n"))

	for _, want := range []string{
		"warning: Table is already empty.",
		"error: [must be positive]",
		"error: usage: add",
		"error: nothing to export",
		`error: unknown command "bogus"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(sess.Items()) != 1 {
		t.Errorf("session not editable after errors: %d items", len(sess.Items()))
	}
}

func TestREPL_NewBillNeedsConfirmation(t *testing.T) {
	sess, _ := runScript(t, "add Pen 5 2\nnew\nn\n")
	if len(sess.Items()) != 1 {
		t.Fatal("bill reset without confirmation")
	}

	sess, out := runScript(t, "add Pen 5 2\nnew\ny\n")
	if len(sess.Items()) != 0 || !strings.Contains(out, "New bill started") {
		t.Errorf("bill not reset after confirmation:\n%s", out)
	}
}

func TestREPL_ClearInputs(t *testing.T) {
	sess, out := runScript(t, "name Pen\nprice 5\nclear-inputs\nqty 1\nadd\n")
	if len(sess.Items()) != 0 || !strings.Contains(out, "error: [empty name]") {
		t.Errorf("staged inputs not cleared:\n%s", out)
	}
}

func TestREPL_PrintSelection(t *testing.T) {
	device := filepath.Join(t.TempDir(), "receipt")

	_, out := runScript(t, "add Pen 5 2\nprint\n\n", printer.NewPDFFile(device))
	if !strings.Contains(out, "Print canceled") || utils.FileExists(device+".pdf") {
		t.Errorf("blank choice did not cancel:\n%s", out)
	}

	_, out = runScript(t, "add Pen 5 2\nprint\n1\n", printer.NewPDFFile(device))
	if !strings.Contains(out, "Printed on pdf") || !utils.FileExists(device+".pdf") {
		t.Errorf("receipt not printed:\n%s", out)
	}
}

func TestREPL_Export(t *testing.T) {
	dir := t.TempDir()
	_, out := runScript(t, "add Pen 5 2\nexport-xml "+filepath.Join(dir, "inv")+"\n")

	if !strings.Contains(out, "XML saved: ") || !utils.FileExists(filepath.Join(dir, "inv.xml")) {
		t.Errorf("XML not exported:\n%s", out)
	}
}
