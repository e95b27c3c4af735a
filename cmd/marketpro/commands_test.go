package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/cache"
	"github.com/alfredjeanlab/marketpro/internal/carousel"
	"github.com/alfredjeanlab/marketpro/internal/client"
	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/server"
	"github.com/alfredjeanlab/marketpro/internal/session"
	"github.com/alfredjeanlab/marketpro/internal/store/file"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

// startSite runs a real site server over a temp file store and points the
// package-level client at it.
func startSite(t *testing.T) *file.FileStore {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	ui.ForceNoColor()

	st, err := file.New(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	srv := server.NewSiteServer(st, server.Options{
		Gate:        session.NewGate("admin", "admin123"),
		RequireAuth: true,
		LoginRate:   100,
		Logger:      discardLogger(),
	})
	ts := httptest.NewServer(srv.NewHTTPHandler())
	t.Cleanup(ts.Close)

	prev := siteClient
	siteClient = client.NewHTTPClient(ts.URL, "")
	t.Cleanup(func() { siteClient = prev })
	return st
}

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	})
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func TestShowCmd_FallsBackToDefaults(t *testing.T) {
	startSite(t)

	out, err := runCmd(t, showCmd)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, model.Default().Hero.Name) {
		t.Errorf("show output missing hero name:\n%s", out)
	}
}

// useUnreachableSite points the client at a port nothing listens on.
func useUnreachableSite(t *testing.T) *cache.Cache {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	ui.ForceNoColor()
	prev := siteClient
	siteClient = client.NewHTTPClient("http://127.0.0.1:1", "")
	t.Cleanup(func() { siteClient = prev })

	lc, err := cache.New("")
	if err != nil {
		t.Fatal(err)
	}
	return lc
}

func TestShowCmd_ServerUnreachable(t *testing.T) {
	lc := useUnreachableSite(t)

	out, err := runCmd(t, showCmd)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, model.Default().Hero.Title) || !strings.Contains(out, "defaults copy") {
		t.Errorf("expected defaults with a note:\n%s", out)
	}

	if err := lc.Set([]byte(`{"hero":{"title":"Cached headline"}}`)); err != nil {
		t.Fatal(err)
	}
	out, err = runCmd(t, showCmd)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Cached headline") || !strings.Contains(out, model.Default().Hero.Name) {
		t.Errorf("expected cached title over defaults:\n%s", out)
	}
}

func TestTestimonialsCmd_ServerUnreachable(t *testing.T) {
	useUnreachableSite(t)
	if err := testimonialsCmd.Flags().Set("once", "true"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = testimonialsCmd.Flags().Set("once", "false") })

	out, err := runCmd(t, testimonialsCmd)
	if err != nil {
		t.Fatalf("testimonials: %v", err)
	}
	if first := model.Default().Testimonials[0]; !strings.Contains(out, first.Name) {
		t.Errorf("expected %q from the defaults:\n%s", first.Name, out)
	}
}

func TestLoginThenEdit(t *testing.T) {
	st := startSite(t)

	// Without a token the save is rejected and nothing is kept.
	if _, err := runCmd(t, editHeroCmd, "name", "Ada"); err == nil || !strings.Contains(err.Error(), "login") {
		t.Fatalf("expected login hint, got %v", err)
	} else if !strings.Contains(err.Error(), "not saved") {
		t.Errorf("error = %v, want a not-saved notice", err)
	}
	lc, err := cache.New("")
	if err != nil {
		t.Fatal(err)
	}
	if cached, _ := lc.Get(); strings.Contains(string(cached), `"Ada"`) {
		t.Errorf("rejected edit reached the local cache:\n%s", cached)
	}

	if err := loginCmd.Flags().Set("password", "admin123"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = loginCmd.Flags().Set("password", "") })
	out, err := runCmd(t, loginCmd)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in") {
		t.Errorf("login output = %q", out)
	}
	if siteClient.Token() != "demo-token-123" {
		t.Errorf("client token = %q, want demo-token-123", siteClient.Token())
	}

	if _, err := runCmd(t, editHeroCmd, "name", "Ada"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	raw, err := st.GetDocument(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"Ada"`) {
		t.Errorf("stored document missing edit:\n%s", raw)
	}

	out, err = runCmd(t, editHeroCmd, "name", "Ada")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No changes.") {
		t.Errorf("repeat edit output = %q", out)
	}
}

func TestLoginCmd_BadPassword(t *testing.T) {
	startSite(t)

	if err := loginCmd.Flags().Set("password", "nope"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = loginCmd.Flags().Set("password", "") })
	if _, err := runCmd(t, loginCmd); err == nil {
		t.Fatal("expected invalid credentials")
	}
}

func TestContactCmd(t *testing.T) {
	startSite(t)

	set := func(name, value string) {
		t.Helper()
		if err := contactCmd.Flags().Set(name, value); err != nil {
			t.Fatal(err)
		}
	}
	set("delay", "1ms")
	set("name", "A")
	set("email", "not-an-email")
	set("message", "short")
	t.Cleanup(func() {
		for _, f := range []string{"name", "email", "message"} {
			_ = contactCmd.Flags().Set(f, "")
		}
		_ = contactCmd.Flags().Set("delay", "1.5s")
	})

	out, err := runCmd(t, contactCmd)
	if err == nil {
		t.Fatal("expected invalid form error")
	}
	for _, field := range []string{"name:", "email:", "message:"} {
		if !strings.Contains(out, field) {
			t.Errorf("output missing %s error:\n%s", field, out)
		}
	}

	set("name", "Ada Lovelace")
	set("email", "ada@example.com")
	set("message", "I would like a growth audit.")
	out, err = runCmd(t, contactCmd)
	if err != nil {
		t.Fatalf("contact: %v", err)
	}
	if !strings.Contains(out, "Message sent!") || !strings.Contains(out, "msg-") {
		t.Errorf("contact output = %q", out)
	}
}

func TestNavigate(t *testing.T) {
	var out bytes.Buffer
	items := model.Default().Testimonials
	c := carousel.New(len(items))
	v := &testimonialView{w: &out, items: items}

	navigate(context.Background(), strings.NewReader("n\np\np\n2\nq\nn\n"), c, v)

	// n -> 1, p -> 0, p -> wraps to last, 2 -> 1; q stops before the final n.
	if c.Index() != 1 {
		t.Errorf("Index = %d, want 1", c.Index())
	}
	if got := strings.Count(out.String(), "("); got != 4 {
		t.Errorf("rendered %d testimonials, want 4:\n%s", got, out.String())
	}
}
