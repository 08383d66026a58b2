package env

import (
	"context"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/golang/glog"
)

// StatsView serves runtime stats charts at /debug/statsview.
type StatsView struct {
	Addr string
}

// StatsView returns the stats server if configured, nil otherwise.
func (c *Config) StatsView() *StatsView {
	if c.StatsViewAddr == "" {
		return nil
	}
	return &StatsView{Addr: c.StatsViewAddr}
}

// Run implements Runnable.
func (v *StatsView) Run(ctx context.Context) error {
	viewer.SetConfiguration(viewer.WithAddr(v.Addr))
	mgr := statsview.New()
	go mgr.Start()
	glog.Infof("stats server available at http://%s/debug/statsview", v.Addr)
	<-ctx.Done()
	mgr.Stop()
	return ctx.Err()
}
