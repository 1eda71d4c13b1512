// Package searchclient provides a state-space graph search for multi-agent
// grid puzzles in which agents move, push and pull color-matched boxes.
//
// It exposes two main entry points:
//
//   - Search: run the graph search to completion and get a Result.
//   - Stepper: iterate the search one expansion at a time to drive tools or debugging.
//
// States are immutable once created. The frontier decides exploration order
// (breadth-first, depth-first or best-first over a Heuristic) and the explored
// set guarantees every state is expanded at most once.
package searchclient
