package enroll

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"facegate/internal/adapters/embedder"
	kit "facegate/internal/platform/testkit"
)

func TestIsImage(t *testing.T) {
	for name, want := range map[string]bool{
		"a.jpg":  true,
		"b.JPEG": true,
		"c.png":  true,
		"d.gif":  false,
		"notes":  false,
	} {
		if got := IsImage(name); got != want {
			t.Fatalf("IsImage(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	kit.WriteFile(t, dir, "01.jpg", []byte("ok"))
	kit.WriteFile(t, dir, "02.png", []byte("noface"))
	kit.WriteFile(t, dir, "03.jpeg", []byte("boom"))
	kit.WriteFile(t, dir, "04.jpg", []byte("short"))
	kit.WriteFile(t, dir, "05.JPG", []byte("ok"))
	kit.WriteFile(t, dir, "readme.txt", []byte("ok"))

	var seen []string
	emb := embedder.Func(func(_ context.Context, img []byte, hint embedder.Hint) ([]float64, error) {
		if hint.Model != "Facenet" {
			t.Fatalf("hint = %+v", hint)
		}
		seen = append(seen, string(img))
		switch string(img) {
		case "noface":
			return nil, embedder.ErrNoFace
		case "boom":
			return nil, errors.New("provider down")
		case "short":
			return []float64{1}, nil
		}
		return []float64{3, 4}, nil
	})

	rep, err := Collect(context.Background(), emb, dir, embedder.Hint{Model: "Facenet", Detector: "opencv"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(seen) != 5 {
		t.Fatalf("embedded %d files, want 5 (txt skipped)", len(seen))
	}
	if rep.Kept() != 2 {
		t.Fatalf("kept = %d, want 2", rep.Kept())
	}
	want := []string{"ok", "no_face", "fail", "fail", "ok"}
	for i, r := range rep.Results {
		if r.Status != want[i] {
			t.Fatalf("result[%d] %s = %s, want %s", i, r.File, r.Status, want[i])
		}
	}
	if s := rep.Samples[0]; math.Abs(s[0]-0.6) > 1e-9 || math.Abs(s[1]-0.8) > 1e-9 {
		t.Fatalf("sample not normalized: %v", s)
	}
}

func TestCollect_MissingDir(t *testing.T) {
	emb := embedder.Func(func(context.Context, []byte, embedder.Hint) ([]float64, error) { return nil, nil })
	if _, err := Collect(context.Background(), emb, filepath.Join(t.TempDir(), "nope"), embedder.Hint{}); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
