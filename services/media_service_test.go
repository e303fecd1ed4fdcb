package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakePresigner struct {
	failPut bool
	puts    []string
	gets    []string
}

func (fp *fakePresigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	if fp.failPut {
		return "", errors.New("presign unavailable")
	}
	fp.puts = append(fp.puts, key)
	return "https://upload.test/" + key, nil
}

func (fp *fakePresigner) PresignGet(ctx context.Context, key string) (string, error) {
	fp.gets = append(fp.gets, key)
	return "https://read.test/" + key, nil
}

func newTestMediaService(presigner Presigner) (*MediaService, *DrawingService) {
	drawings := &DrawingService{Store: NewMemoryStore()}
	return &MediaService{Presigner: presigner, Drawings: drawings}, drawings
}

func TestCreatePhotoUploadStoresKey(t *testing.T) {
	presigner := &fakePresigner{}
	ms, drawings := newTestMediaService(presigner)
	ctx := context.Background()

	url, key, err := ms.CreatePhotoUpload(ctx, "s1", "alice", "image/png")
	if err != nil {
		t.Fatalf("CreatePhotoUpload failed: %v", err)
	}
	if want := "contest-photos/s1/alice"; key != want {
		t.Errorf("key = %q, want %q", key, want)
	}
	if !strings.Contains(url, key) {
		t.Errorf("url = %q, want it to carry the object key", url)
	}

	photos, err := drawings.Photos(ctx, "s1")
	if err != nil {
		t.Fatalf("Photos failed: %v", err)
	}
	if photos["alice"] != key {
		t.Errorf("stored key = %q, want %q", photos["alice"], key)
	}
}

func TestCreatePhotoUploadPresignFailure(t *testing.T) {
	ms, drawings := newTestMediaService(&fakePresigner{failPut: true})
	ctx := context.Background()

	if _, _, err := ms.CreatePhotoUpload(ctx, "s1", "alice", "image/png"); err == nil {
		t.Fatal("expected presign failure to propagate")
	}

	// No key gets stored when the upload slot was never issued.
	photos, err := drawings.Photos(ctx, "s1")
	if err != nil {
		t.Fatalf("Photos failed: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("photos = %v, want none", photos)
	}
}

func TestPhotoReadURL(t *testing.T) {
	presigner := &fakePresigner{}
	ms, _ := newTestMediaService(presigner)
	ctx := context.Background()

	if _, _, err := ms.CreatePhotoUpload(ctx, "s1", "alice", "image/png"); err != nil {
		t.Fatalf("CreatePhotoUpload failed: %v", err)
	}

	url, err := ms.PhotoReadURL(ctx, "s1", "alice")
	if err != nil {
		t.Fatalf("PhotoReadURL failed: %v", err)
	}
	if want := "https://read.test/contest-photos/s1/alice"; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestPhotoReadURLUnknownParticipant(t *testing.T) {
	ms, _ := newTestMediaService(&fakePresigner{})
	ctx := context.Background()

	if _, err := ms.PhotoReadURL(ctx, "s1", "ghost"); err == nil {
		t.Fatal("expected an error for a participant without a stored photo")
	}
}
