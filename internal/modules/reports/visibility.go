package reports

func buildVisibility(rc *reportContext) *VisibilityResponse {
	heatmap, err := BuildHeatmap(rc.window.Records, rc.model)
	if err != nil {
		heatmap = syntheticHeatmap()
	}

	return &VisibilityResponse{
		Visibility:      buildMetricBlock(rc, ChannelVisibility),
		Reach:           buildMetricBlock(rc, ChannelReach),
		Rank:            buildMetricBlock(rc, ChannelRank),
		Focus:           buildMetricBlock(rc, ChannelFocus),
		Heatmap:         heatmap,
		ActualDateRange: rc.window.ActualRange(),
	}
}

func buildMetricBlock(rc *reportContext, ch Channel) MetricBlock {
	win := rc.window
	current := AggregateChannel(win.Records, rc.model, ch, win.SinglePoint)
	previous := AggregateChannel(win.Comparison, rc.model, ch, win.SinglePoint)
	return MetricBlock{
		Ranking: BuildRanking(current, previous, ch, rc.selfBrand, win.SinglePoint),
		Trends:  BuildTrends(win.Records, rc.model, ch, win.SinglePoint),
	}
}
