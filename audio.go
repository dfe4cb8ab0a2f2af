package bats

// RenderFunc produces one buffer of stereo audio. It is called once per audio
// callback with equally sized left and right slices and must fill both
// completely. It runs on the audio thread and must not allocate, lock or
// block.
type RenderFunc func(left, right []float32)
