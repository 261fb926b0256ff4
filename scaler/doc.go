// Package scaler provides the tabular Q-learning warehouse autoscaler.
//
// # Reading Guide
//
// Start with these files to understand the controller:
//   - codec.go: warehouse sizes, runtime buckets and the State encoding between them
//   - learner.go: the Q-table, epsilon-greedy action selection and the TD(0) update
//   - controller.go: the per-partition state machine (bootstrap, step, restart, terminate)
//
// # Architecture
//
// A Controller is created for exactly one partition (an ordered batch of
// observations for one workload) and discarded after it has produced its
// trace. It owns its QLearner, CostHistory and RewardModel; nothing is shared
// between partitions, so independent partitions can be processed in parallel
// without locking (see scaler/fleet).
//
// Sub-packages:
//   - scaler/trace/: transition records and trace summaries (pure data)
//   - scaler/dataset/: CSV import of observation partitions and export of recommendations
//   - scaler/fleet/: parallel fan-out across partitions with Prometheus metrics
//
// # Key Interfaces
//
//   - RewardModel: scalar reward for one transition (differential, anti-flapping)
//   - RestartPolicy: recovery procedure after reward collapse (historical-replay, none)
//   - Source: the exploration random source, injected for reproducibility
package scaler
