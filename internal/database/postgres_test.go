package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenPostgresRejectsEmptyDSN(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "", 0)
	require.Error(t, err)
}
