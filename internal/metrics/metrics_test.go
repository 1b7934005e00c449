package metrics

import (
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glossary-manager/internal/model"
	"glossary-manager/internal/terms"
)

func TestInstrumentRecordsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollectors(reg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Terms.xml")
	svc := Instrument(terms.NewService(path), c)

	_, err = svc.LoadTerms()
	require.ErrorIs(t, err, terms.ErrStorageInvalid)

	require.NoError(t, svc.RecreateStorage([]model.Term{model.NewTerm("a", "first")}))
	_, err = svc.AddTerm(model.NewTerm("b", ""))
	require.NoError(t, err)
	_, err = svc.AddTerm(model.NewTerm("a", "again"))
	require.ErrorIs(t, err, terms.ErrDuplicateTerm)
	_, err = svc.RemoveTerm(model.NewTerm("zzz", ""))
	require.ErrorIs(t, err, terms.ErrTermNotFound)
	_, err = svc.UpdateTerm(model.NewTerm("b", ""), model.NewTerm("", ""))
	require.ErrorIs(t, err, terms.ErrInvalidArgument)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("load", terms.KindStorageInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("recreate", resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("add", resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("add", terms.KindDuplicateTerm)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("remove", terms.KindTermNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("update", terms.KindInvalidArgument)))
	assert.Equal(t, 5, testutil.CollectAndCount(c.duration))
}

func TestNewCollectorsRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollectors(reg)
	require.NoError(t, err)

	_, err = NewCollectors(reg)
	assert.Error(t, err)
}
