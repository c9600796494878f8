package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder
// used when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordOAuthCallback(success bool) {}
func (n *NoopMetrics) RecordTokenStored(success bool) {}
func (n *NoopMetrics) RecordSiteRegistration(result string) {}
func (n *NoopMetrics) RecordUpstreamCall(operation string, success bool, d time.Duration) {}
func (n *NoopMetrics) RecordSnapshotRefresh(success bool) {}
func (n *NoopMetrics) RecordLeaderboardCache(hit bool) {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
func (n *NoopMetrics) SetSitesRegistered(count int) {}
