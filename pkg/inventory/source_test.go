package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/findsimulator/pkg/domain"
	"github.com/stretchr/testify/assert"
)

type blockingSource struct{}

func (blockingSource) Devices(ctx context.Context) (domain.DeviceCatalog, error) {
	<-ctx.Done()
	return domain.DeviceCatalog{}, ctx.Err()
}

func (blockingSource) Pairs(ctx context.Context) (domain.PairCatalog, error) {
	<-ctx.Done()
	return domain.PairCatalog{}, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	t.Run("non-positive duration keeps the source", func(t *testing.T) {
		var src Source = Static{}
		assert.Equal(t, src, WithTimeout(src, 0))
		assert.Equal(t, src, WithTimeout(src, -time.Second))
	})

	t.Run("fetches are cut off", func(t *testing.T) {
		src := WithTimeout(blockingSource{}, 20*time.Millisecond)

		_, err := src.Devices(context.Background())
		assert.True(t, errors.Is(err, context.DeadlineExceeded))

		_, err = src.Pairs(context.Background())
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}
