package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/mkarczewski/keysheet"
	"github.com/mkarczewski/keysheet/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Record(t *testing.T) {
	t.Parallel()

	t.Run("appends one keyword per line", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "keywords.txt")
		writer := fs.NewWriter(path)
		defer writer.Close()

		require.NoError(t, writer.Record(context.Background(), keysheet.Discovery{Keyword: "shoes", Engine: keysheet.EngineSeed}))
		require.NoError(t, writer.Record(context.Background(), keysheet.Discovery{Keyword: "running shoes", Engine: keysheet.EngineGoogle}))
		require.NoError(t, writer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "shoes\nrunning shoes\n", string(data))
	})

	t.Run("starts fresh over a previous run's output", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "keywords.txt")
		require.NoError(t, os.WriteFile(path, []byte("stale keyword\n"), 0o644))

		writer := fs.NewWriter(path)
		require.NoError(t, writer.Record(context.Background(), keysheet.Discovery{Keyword: "shoes", Engine: keysheet.EngineSeed}))
		require.NoError(t, writer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "shoes\n", string(data))
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "nested", "keywords.txt")
		writer := fs.NewWriter(path)
		defer writer.Close()

		require.NoError(t, writer.Record(context.Background(), keysheet.Discovery{Keyword: "shoes", Engine: keysheet.EngineSeed}))

		_, err := os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("serializes concurrent writers", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "keywords.txt")
		writer := fs.NewWriter(path)

		var wg sync.WaitGroup
		keywords := []keysheet.Keyword{"alpha", "bravo", "charlie", "delta", "echo"}
		for _, k := range keywords {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, writer.Record(context.Background(), keysheet.Discovery{Keyword: k, Engine: keysheet.EngineGoogle}))
			}()
		}
		wg.Wait()
		require.NoError(t, writer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		got := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		sort.Strings(got)
		assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta", "echo"}, got)
	})

	t.Run("rejects writes after cancellation", func(t *testing.T) {
		t.Parallel()

		writer := fs.NewWriter(filepath.Join(t.TempDir(), "keywords.txt"))
		defer writer.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := writer.Record(ctx, keysheet.Discovery{Keyword: "shoes", Engine: keysheet.EngineSeed})
		require.Error(t, err)
	})

	t.Run("close without records is a no-op", func(t *testing.T) {
		t.Parallel()

		writer := fs.NewWriter(filepath.Join(t.TempDir(), "keywords.txt"))
		require.NoError(t, writer.Close())
	})
}

func TestSeedFile_Seeds(t *testing.T) {
	t.Parallel()

	t.Run("reads one seed per line", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "seeds.txt")
		require.NoError(t, os.WriteFile(path, []byte("shoes\n\n# comment\n  winter boots  \n"), 0o644))

		seeds, err := fs.NewSeedFile(path).Seeds(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"shoes", "winter boots"}, seeds)
	})

	t.Run("reports a missing file as not found", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewSeedFile(filepath.Join(t.TempDir(), "absent.txt")).Seeds(context.Background())
		require.Error(t, err)
		assert.Equal(t, keysheet.ENOTFOUND, keysheet.ErrorCode(err))
	})
}
