package keysheet_test

import (
	"context"
	"testing"

	"github.com/mkarczewski/keysheet"
	"github.com/mkarczewski/keysheet/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiSink_Record(t *testing.T) {
	t.Parallel()

	t.Run("fans out to every sink", func(t *testing.T) {
		t.Parallel()

		first := &mock.RecordingSink{}
		second := &mock.RecordingSink{}
		multi := keysheet.MultiSink{first, second}

		err := multi.Record(context.Background(), keysheet.Discovery{Keyword: "shoes", Engine: keysheet.EngineSeed})
		require.NoError(t, err)
		assert.Equal(t, []string{"shoes"}, first.Keywords())
		assert.Equal(t, []string{"shoes"}, second.Keywords())
	})

	t.Run("keeps writing after a member failure", func(t *testing.T) {
		t.Parallel()

		failing := &mock.Sink{RecordFn: func(ctx context.Context, d keysheet.Discovery) error {
			return keysheet.Errorf(keysheet.EINTERNAL, "disk full")
		}}
		second := &mock.RecordingSink{}
		multi := keysheet.MultiSink{failing, second}

		err := multi.Record(context.Background(), keysheet.Discovery{Keyword: "shoes", Engine: keysheet.EngineSeed})
		require.Error(t, err)
		assert.Equal(t, keysheet.EINTERNAL, keysheet.ErrorCode(err))
		assert.Equal(t, []string{"shoes"}, second.Keywords())
	})
}
