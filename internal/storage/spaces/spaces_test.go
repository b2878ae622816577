//go:build integration
// +build integration

package spaces_test

import (
	"context"
	"os"
	"reflect"
	"testing"

	"github.com/DMarby/gallery-slideshow/internal/storage"
	"github.com/DMarby/gallery-slideshow/internal/storage/spaces"
)

func TestSpaces(t *testing.T) {
	provider, err := spaces.New(
		os.Getenv("SLIDESHOW_SPACE"),
		os.Getenv("SLIDESHOW_SPACES_ENDPOINT"),
		os.Getenv("SLIDESHOW_SPACES_ACCESS_KEY"),
		os.Getenv("SLIDESHOW_SPACES_SECRET_KEY"),
		os.Getenv("SLIDESHOW_SPACES_PREFIX"),
		false,
	)

	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	t.Run("Get an image by location", func(t *testing.T) {
		buf, err := provider.Get(ctx, "https://photos.example.com/photos/IMG_1234-X3.jpg")
		if err != nil {
			t.Fatal(err)
		}

		resultFixture, _ := os.ReadFile("../file/testdata/IMG_1234-X3.jpg")
		if !reflect.DeepEqual(buf, resultFixture) {
			t.Error("image data doesn't match")
		}
	})

	t.Run("Returns error on a nonexistant image", func(t *testing.T) {
		_, err := provider.Get(ctx, "https://photos.example.com/photos/nonexistant.jpg")
		if err != storage.ErrNotFound {
			t.FailNow()
		}
	})
}

func TestNew(t *testing.T) {
	_, err := spaces.New("", "", "", "", "", false)
	if err == nil {
		t.Fatal("no error")
	}
}
