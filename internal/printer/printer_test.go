package printer

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terassyi/krn08/internal/catalog"
	krnerrors "github.com/terassyi/krn08/internal/errors"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat
}

func TestResolveListing(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"packages", ListingPackages, false},
		{"pkg", ListingPackages, false},
		{"apps", ListingPackages, false},
		{"Tweaks", ListingTweaks, false},
		{"tweak", ListingTweaks, false},
		{"recommended", ListingRecommended, false},
		{"REC", ListingRecommended, false},
		{"drivers", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveListing(tt.input)
			if tt.wantErr {
				var ve *krnerrors.ValidationError
				require.True(t, errors.As(err, &ve))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_PackagesTable(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, loadCatalog(t), ListingPackages, FormatTable, false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 17)
	assert.Regexp(t, `^ID\s+TITLE\s+CATEGORY\s+DESCRIPTION$`, lines[0])
	assert.Contains(t, lines[1], "Google.Chrome")
	assert.Contains(t, lines[1], "browsers")
}

func TestRun_TweaksExpert(t *testing.T) {
	t.Parallel()
	cat := loadCatalog(t)

	var safe, expert bytes.Buffer
	require.NoError(t, Run(&safe, cat, ListingTweaks, FormatTable, false))
	require.NoError(t, Run(&expert, cat, ListingTweaks, FormatTable, true))

	assert.NotContains(t, safe.String(), "defender")
	assert.Contains(t, expert.String(), "defender")
	assert.Regexp(t, `restorepoint\s+Create Restore Point\s+essential\s+false\s+selected`, safe.String())
}

func TestRun_RecommendedJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, loadCatalog(t), ListingRecommended, FormatJSON, false))

	var got []catalog.Recommendation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 5)
	assert.Equal(t, "bloat", got[0].ID)
	assert.Equal(t, "Clean", got[0].Category)
}

func TestRun_PackagesYAML(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, loadCatalog(t), ListingPackages, FormatYAML, false))

	var got []catalog.Package
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 16)
	assert.Equal(t, "Microsoft.DirectX", got[15].ID)
}

func TestRun_Invalid(t *testing.T) {
	t.Parallel()
	cat := loadCatalog(t)

	err := Run(&bytes.Buffer{}, cat, ListingPackages, "xml", false)
	var ve *krnerrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "output", ve.Field)

	err = Run(&bytes.Buffer{}, cat, "drivers", FormatTable, false)
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, krnerrors.CodeUnknownItem, ve.Base.Code)
}

func TestPrintTable_Empty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	printTable(&buf, []catalog.Package{}, packageFormatter{})
	assert.Equal(t, "No items found.\n", buf.String())
}

func TestFormatDefault(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "selected", formatDefault(true))
	assert.Equal(t, "-", formatDefault(false))
}
