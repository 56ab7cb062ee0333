package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsJSON = `[
	{"id":1,"name":"Desk","category":"Office","price":120,"quantity":2,"inStock":true},
	{"id":2,"name":"chair","category":"Office","price":45,"quantity":0,"inStock":false},
	{"id":3,"name":"Lamp","category":"Home","price":20,"quantity":5,"inStock":true}
]`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, productsJSON)
	}))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--api", srv.URL + "/api"}, args...))
	t.Cleanup(func() {
		listSort, listCategory, listSearch, listPage, listPerPage = nil, nil, "", 1, 0
	})

	err := rootCmd.Execute()

	return out.String(), err
}

func rowNames(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] == "page" {
			continue
		}
		names = append(names, fields[1])
	}

	return names
}

func TestList(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantNames []string
		wantTail  string
	}{
		{
			name:      "fetch order",
			args:      []string{"list"},
			wantNames: []string{"Desk", "chair", "Lamp"},
			wantTail:  "page 1/1, 3 products",
		},
		{
			name:      "multi-key sort",
			args:      []string{"list", "--sort", "category asc,price desc"},
			wantNames: []string{"Lamp", "Desk", "chair"},
			wantTail:  "sorted by category ASC, price DESC",
		},
		{
			name:      "alias and filter",
			args:      []string{"list", "--sort", "in_stock desc", "--category", "Office"},
			wantNames: []string{"Desk", "chair"},
			wantTail:  "sorted by inStock DESC",
		},
		{
			name:      "paginated",
			args:      []string{"list", "--sort", "name asc", "--per-page", "2", "--page", "2"},
			wantNames: []string{"Lamp"},
			wantTail:  "page 2/2, 3 products",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, rowNames(out))
			assert.Contains(t, out, tt.wantTail)
		})
	}
}

func TestList_StockColumn(t *testing.T) {
	out, err := runCLI(t, "list")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Contains(t, lines[0], "Stock")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[1]), "low stock"), lines[1])
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[2]), "out of stock"), lines[2])
}

func TestList_InvalidSort(t *testing.T) {
	_, err := runCLI(t, "list", "--sort", "nmae asc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closest: 'name'")
}
