// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS holds the numbered up/down pairs, read by golang-migrate's iofs source.
//
//go:embed *.sql
var FS embed.FS
