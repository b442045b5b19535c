// Package sanitizer normalizes raw user input before validation: spot
// names, free-text notes, and vehicle registration numbers. Sanitizers
// never reject input; rejection is the validator's job.
package sanitizer
