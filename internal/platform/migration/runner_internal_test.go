// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost/springfield", "pgx5://u:p@localhost/springfield"},
		{"postgresql://localhost/springfield", "pgx5://localhost/springfield"},
		{"pgx5://localhost/springfield", "pgx5://localhost/springfield"},
		{"host=localhost dbname=springfield", "host=localhost dbname=springfield"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, toPgx5DSN(tt.in))
		})
	}
}
