package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultLottoConfig() *Config {
	cfg := &Config{}
	cfg.Lotto.PoolSize = 20
	cfg.Lotto.Prices = []int64{20, 40, 80, 160}
	return cfg
}

func TestPriceFor(t *testing.T) {
	cfg := defaultLottoConfig()

	tests := []struct {
		name    string
		count   int
		want    int64
		wantErr bool
	}{
		{name: "minimum board", count: 5, want: 20},
		{name: "six numbers", count: 6, want: 40},
		{name: "seven numbers", count: 7, want: 80},
		{name: "maximum board", count: 8, want: 160},
		{name: "below minimum", count: 4, wantErr: true},
		{name: "above maximum", count: 9, wantErr: true},
		{name: "zero", count: 0, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := cfg.PriceFor(tt.count)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, price)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("defaults pass", func(t *testing.T) {
		require.NoError(t, defaultLottoConfig().Validate())
	})

	t.Run("pool smaller than largest board", func(t *testing.T) {
		cfg := defaultLottoConfig()
		cfg.Lotto.PoolSize = 7
		require.Error(t, cfg.Validate())
	})

	t.Run("wrong price count", func(t *testing.T) {
		cfg := defaultLottoConfig()
		cfg.Lotto.Prices = []int64{20, 40, 80}
		require.Error(t, cfg.Validate())
	})

	t.Run("non-positive price", func(t *testing.T) {
		cfg := defaultLottoConfig()
		cfg.Lotto.Prices = []int64{0, 40, 80, 160}
		require.Error(t, cfg.Validate())
	})

	t.Run("prices must increase", func(t *testing.T) {
		cfg := defaultLottoConfig()
		cfg.Lotto.Prices = []int64{20, 40, 40, 160}
		require.Error(t, cfg.Validate())
	})
}
