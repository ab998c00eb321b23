package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"
)

// RunScheduler triggers pipeline runs on a fixed interval, with an
// optional random pre-delay before each run so posting times do not look
// mechanical. Trigger, delay, run-start and run-result events go to a
// line-oriented schedule log meant for external monitoring.
type RunScheduler struct {
	pipeline *Pipeline
	interval time.Duration
	maxDelay time.Duration
	logPath  string
	stopChan chan struct{}
	onResult func(*PipelineResult)
}

func NewRunScheduler(pipeline *Pipeline, interval, maxDelay time.Duration, logPath string, onResult func(*PipelineResult)) *RunScheduler {
	return &RunScheduler{
		pipeline: pipeline,
		interval: interval,
		maxDelay: maxDelay,
		logPath:  logPath,
		stopChan: make(chan struct{}),
		onResult: onResult,
	}
}

func (s *RunScheduler) Start() {
	go s.loop()
}

func (s *RunScheduler) Stop() {
	close(s.stopChan)
}

func (s *RunScheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// First run fires immediately rather than waiting a full interval
	s.triggerRun()

	for {
		select {
		case <-ticker.C:
			s.triggerRun()
		case <-s.stopChan:
			return
		}
	}
}

func (s *RunScheduler) triggerRun() {
	s.logEvent("trigger")

	if s.maxDelay > 0 {
		delay := time.Duration(rand.Int63n(int64(s.maxDelay)))
		s.logEvent(fmt.Sprintf("delay %s", delay.Round(time.Second)))
		select {
		case <-time.After(delay):
		case <-s.stopChan:
			return
		}
	}

	s.logEvent("run-start")
	result := s.pipeline.Run(context.Background(), nil)
	if result.Success {
		s.logEvent(fmt.Sprintf("run-result success sources=%d ideas=%d content=%d",
			len(result.Metadata.SourcesUsed), result.Metadata.IdeaCount, result.Metadata.ContentCount))
	} else {
		s.logEvent(fmt.Sprintf("run-result error %q", result.Error))
	}

	if s.onResult != nil {
		s.onResult(result)
	}
}

// logEvent appends one timestamped line to the schedule log; the
// schedule log is monitoring-only, so failures are not fatal
func (s *RunScheduler) logEvent(event string) {
	line := fmt.Sprintf("%s %s\n", time.Now().Format(time.RFC3339), event)

	file, err := os.OpenFile(s.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logg.Warnf("schedule log: %v", err)
		return
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		logg.Warnf("schedule log: %v", err)
	}
}
