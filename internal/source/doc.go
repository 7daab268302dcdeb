// Package source implements the signal sources the monitors watch: the
// pomodoro break timer (timer kind) and the moon phase (discrete kind).
//
// Sources are pure per call and never touch the network. The timer kind
// derives its state partly from the currently open incident; the discrete
// kind computes its state from the clock alone.
package source
