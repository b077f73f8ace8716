// Package profile describes how a job kind may be sized in time.
//
// A Profile is the ordered list of alternative (data length, valid span)
// pairs a kind supports. Valid spans are offsets relative to the start of
// the data a job reads. Providers turn a kind's Options into a Profile; the
// tiler only ever sees the resulting entries.
package profile
