package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/pictures-london/internal/model"
)

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, "amelie", canonicalKey(model.RawScreening{FilmTitle: "Amélie"}))
	assert.Equal(t, "apocalypse now",
		canonicalKey(model.RawScreening{FilmTitle: "Apocalypse Now : Final Cut", CanonicalTitle: "Apocalypse Now"}))
	assert.Equal(t, "withnail and i", canonicalKey(model.RawScreening{FilmTitle: "Withnail & I"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "éé", truncate("éééé", 2))
	assert.Len(t, []rune(truncate(strings.Repeat("x", 300), maxKeyLen)), maxKeyLen)
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, nullInt(0).Valid)
	assert.True(t, nullInt(1979).Valid)
	assert.False(t, nullString("").Valid)
	assert.Equal(t, "Coppola", nullString("Coppola").String)
}
