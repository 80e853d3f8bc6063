// Package throttle implements the request budget gate in front of the leg fetcher.
//
// Every fetch calls Acquire before it starts and Release when it finishes.
// Acquire spaces fetches by a jittered delay and, once MaxConsecutive
// fetches have gone out, imposes a cooldown pause before the next one.
// Release arms an inactivity timer; if no fetch starts before it fires, the
// consecutive counter resets. Penalize forces an explicit cooldown after the
// server signals a rate limit.
//
// All waits observe the context. A cancelled context makes pending waits
// return immediately with the context error and no fetch should follow.
package throttle
