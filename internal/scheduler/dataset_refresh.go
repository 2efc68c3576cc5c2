package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/meridianlabs/meridian/internal/modules/dataset"
	"github.com/meridianlabs/meridian/internal/observability"
)

// DatasetRefreshJob keeps the snapshot cache warm so requests never pay the
// cold decode after the collection pipeline drops a new file.
type DatasetRefreshJob struct {
	cache   *dataset.Cache
	metrics *observability.Metrics
	log     zerolog.Logger
}

// NewDatasetRefreshJob creates the refresh job. metrics may be nil.
func NewDatasetRefreshJob(cache *dataset.Cache, metrics *observability.Metrics, log zerolog.Logger) *DatasetRefreshJob {
	return &DatasetRefreshJob{
		cache:   cache,
		metrics: metrics,
		log:     log.With().Str("job", "dataset-refresh").Logger(),
	}
}

// Name returns the job name for scheduler logging.
func (j *DatasetRefreshJob) Name() string {
	return "dataset-refresh"
}

// Run reloads the dataset from disk. The cache keeps its previous copy on
// failure, so a broken snapshot file never evicts served data.
func (j *DatasetRefreshJob) Run() error {
	if err := j.cache.Refresh(); err != nil {
		if j.metrics != nil {
			j.metrics.DatasetRefreshErrors.Inc()
		}
		return err
	}
	if j.metrics != nil {
		j.metrics.DatasetRefreshes.Inc()
	}
	j.log.Debug().Msg("dataset cache refreshed")
	return nil
}
