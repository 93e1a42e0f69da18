package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFeedFetch(t *testing.T) {
	before := testutil.ToFloat64(FeedItemsParsed.WithLabelValues("metrics-test.example"))

	RecordFeedFetch("metrics-test.example", 150*time.Millisecond, 3)
	RecordFeedFetch("metrics-test.example", 10*time.Millisecond, 0)

	after := testutil.ToFloat64(FeedItemsParsed.WithLabelValues("metrics-test.example"))
	assert.Equal(t, 3.0, after-before)
}

func TestRecordFeedFetchError(t *testing.T) {
	tests := []struct {
		name string
		kind string
	}{
		{name: "fetch failure", kind: KindFetch},
		{name: "parse failure", kind: KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FeedFetchErrors.WithLabelValues("errors-test.example", tt.kind)
			before := testutil.ToFloat64(c)
			RecordFeedFetchError("errors-test.example", tt.kind)
			assert.Equal(t, 1.0, testutil.ToFloat64(c)-before)
		})
	}
}

func TestRecordReaderOperation(t *testing.T) {
	ok := ReaderOperations.WithLabelValues("read_one", OutcomeSuccess)
	fail := ReaderOperations.WithLabelValues("read_one", OutcomeFailure)
	okBefore, failBefore := testutil.ToFloat64(ok), testutil.ToFloat64(fail)

	RecordReaderOperation("read_one", nil)
	RecordReaderOperation("read_one", errors.New("boom"))
	RecordReaderOperation("read_one", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(ok)-okBefore)
	assert.Equal(t, 1.0, testutil.ToFloat64(fail)-failBefore)
}

func TestRecordRegistryMutationAndSourcesTotal(t *testing.T) {
	c := RegistryMutations.WithLabelValues("created")
	before := testutil.ToFloat64(c)
	RecordRegistryMutation("created")
	assert.Equal(t, 1.0, testutil.ToFloat64(c)-before)

	UpdateSourcesTotal(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(SourcesTotal))
}

func TestRecordSearchResults(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordSearchResults(0)
		RecordSearchResults(12)
	})
}
