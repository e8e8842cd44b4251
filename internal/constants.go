/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent = "chesselo/0.3.0 (+https://github.com/mikeb26/chesselo)"
	// StoreBucket holds cached roster pages and player/game snapshots.
	StoreBucket = "bopmatic-chesselo-prod-store"
)
