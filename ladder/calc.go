/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ladder

import (
	"fmt"
	"strings"

	"github.com/mikeb26/chesselo/elo"
)

// BuildRatingOutput formats the expected score, rating change and new
// rating calculated by r.
func BuildRatingOutput(r elo.Rating) (string, error) {
	change, err := r.Change()
	if err != nil {
		return "", err
	}
	newRating, err := r.NewRating()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Expected score: %.4f\n", r.Expected()))
	sb.WriteString(fmt.Sprintf("Rating change:  %+.2f\n", change))
	sb.WriteString(fmt.Sprintf("New rating:     %v\n", newRating))
	return sb.String(), nil
}
