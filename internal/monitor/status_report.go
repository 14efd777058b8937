package monitor

import (
	"sort"
	"sync/atomic"
	"time"

	"arrmon/pkg/types"
)

// Status builds the detailed status response for /status.
func (o *Orchestrator) Status() types.StatusResponse {
	resp := types.StatusResponse{
		Ready:           o.allReady(),
		RefreshesTotal:  atomic.LoadUint64(&o.refreshes),
		RefreshFailures: atomic.LoadUint64(&o.failures),
		UptimeSeconds:   int64(time.Since(o.startTime).Seconds()),
		ServerTimeUnix:  time.Now().Unix(),
		Tracker:         o.estimator.Statistics(),
	}
	resp.Sources = make([]types.SourceStatus, 0, len(o.clients))
	for src := range o.clients {
		st := types.SourceStatus{
			Name:  string(src),
			Ready: o.cache.IsReady(src),
			Items: o.cache.Len(src),
		}
		if t := o.cache.LastRefresh(src); !t.IsZero() {
			st.LastRefreshUnix = t.Unix()
		}
		resp.Sources = append(resp.Sources, st)
	}
	sort.Slice(resp.Sources, func(i, j int) bool { return resp.Sources[i].Name < resp.Sources[j].Name })
	return resp
}
