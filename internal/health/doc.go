// Package health implements the notification surfaces that receive
// provider-degradation signals from the request layer.
//
// ConsoleHealthNotifier renders warnings through zap, and
// MetricsHealthNotifier decorates any notifier with Prometheus counters so
// warning rates can be scraped.
package health
