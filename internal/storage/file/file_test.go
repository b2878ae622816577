package file_test

import (
	"context"
	"os"
	"reflect"

	"github.com/DMarby/gallery-slideshow/internal/storage"
	"github.com/DMarby/gallery-slideshow/internal/storage/file"

	"testing"
)

func TestFile(t *testing.T) {
	provider, err := file.New("testdata")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Get an image by its url", func(t *testing.T) {
		buf, err := provider.Get(context.Background(), "https://photos.smugmug.com/Travel/i-abc/0/X3/IMG_1234-X3.jpg")
		if err != nil {
			t.Fatal(err)
		}

		resultFixture, _ := os.ReadFile("testdata/IMG_1234-X3.jpg")
		if !reflect.DeepEqual(buf, resultFixture) {
			t.Error("image data doesn't match")
		}
	})

	t.Run("Returns error on a nonexistant path", func(t *testing.T) {
		_, err := file.New("")
		if err == nil {
			t.FailNow()
		}
	})

	t.Run("Returns not found on a nonexistant image", func(t *testing.T) {
		_, err := provider.Get(context.Background(), "https://photos.smugmug.com/nonexistant.jpg")
		if err != storage.ErrNotFound {
			t.Fatalf("wrong error %v", err)
		}
	})
}
