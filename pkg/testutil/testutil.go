// Package testutil provides testing utilities for tabprep
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// InsuranceCSV is a small insurance dataset with one duplicate row (the
// last one repeats the second).
const InsuranceCSV = `age,sex,bmi,children,smoker,region,charges
19,female,27.9,0,yes,southwest,16884.924
18,male,33.77,1,no,southeast,1725.5523
28,male,33,3,no,southeast,4449.462
33,male,22.705,0,no,northwest,21984.47061
32,male,28.88,0,no,northwest,3866.8552
18,male,33.77,1,no,southeast,1725.5523
`

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// WriteFile writes content to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

var regions = []string{"northeast", "northwest", "southeast", "southwest"}

// GenerateCSV builds a deterministic insurance-like dataset with rows data
// rows. Every dupEvery-th row repeats the row before it; zero disables
// duplicates.
func GenerateCSV(rows, dupEvery int) string {
	var b strings.Builder
	b.WriteString("id,sex,region,smoker,age,bmi,charges\n")

	prev := ""
	for i := 0; i < rows; i++ {
		if dupEvery > 0 && i > 0 && i%dupEvery == 0 {
			b.WriteString(prev)
			continue
		}
		sex := "female"
		if i%2 == 1 {
			sex = "male"
		}
		smoker := "no"
		if i%5 == 0 {
			smoker = "yes"
		}
		prev = fmt.Sprintf("%d,%s,%s,%s,%d,%.2f,%.3f\n",
			i, sex, regions[i%len(regions)], smoker,
			18+i%47, 18.5+float64(i%200)/10, 1000+float64(i)*13.7)
		b.WriteString(prev)
	}
	return b.String()
}
