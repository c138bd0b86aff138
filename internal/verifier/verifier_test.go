package verifier

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/csvup/internal/logging"
	"github.com/vvka-141/csvup/pkg/csvup"
)

// fakeQuerier returns a fixed count or a fixed error from QueryRow.
type fakeQuerier struct {
	count int64
	err   error
}

type fakeRow struct {
	count int64
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.count
	return nil
}

func (q fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return fakeRow{count: q.count, err: q.err}
}

func TestVerify_Match(t *testing.T) {
	var out bytes.Buffer
	v := New(logging.NewNullLogger(), &out)

	report, err := v.Verify(context.Background(), fakeQuerier{count: 3}, "loan_data", 3)
	require.NoError(t, err)

	assert.True(t, report.Matched())
	assert.Equal(t, int64(3), report.Local)
	assert.Equal(t, int64(3), report.Remote)
	assert.Equal(t, "Upload successful: 3 = 3. Row counts match.\n", out.String())
}

func TestVerify_MismatchIsReportedNotRaised(t *testing.T) {
	var out bytes.Buffer
	v := New(logging.NewNullLogger(), &out)

	report, err := v.Verify(context.Background(), fakeQuerier{count: 2}, "loan_data", 3)
	require.NoError(t, err, "a mismatch must not surface as an error")

	assert.False(t, report.Matched())
	assert.Equal(t, "Upload Error: local=3, remote=2. Row counts do not match.\n", out.String())
}

func TestVerify_EmptyDataset(t *testing.T) {
	var out bytes.Buffer
	v := New(logging.NewNullLogger(), &out)

	report, err := v.Verify(context.Background(), fakeQuerier{count: 0}, "loan_data", 0)
	require.NoError(t, err)

	assert.True(t, report.Matched())
	assert.Equal(t, "Upload successful: 0 = 0. Row counts match.\n", out.String())
}

func TestCount_QueryFailureWrapsErrQuery(t *testing.T) {
	v := New(logging.NewNullLogger(), &bytes.Buffer{})

	_, err := v.Count(context.Background(), fakeQuerier{err: errors.New("no rows")}, "loan_data")
	assert.True(t, errors.Is(err, csvup.ErrQuery), "got: %v", err)
}

func TestVerify_QueryFailureDoesNotPrint(t *testing.T) {
	var out bytes.Buffer
	v := New(logging.NewNullLogger(), &out)

	_, err := v.Verify(context.Background(), fakeQuerier{err: errors.New("boom")}, "loan_data", 3)
	assert.Error(t, err)
	assert.Empty(t, out.String(), "no report line on query failure")
}
