package component

// Audio is owned by the entity; AudioSystem reads and writes the playback fields.
// Setting Active starts playback. One-shot sounds clear Active once started;
// looping sounds keep playing until Active is cleared.
type Audio struct {
	Filename string
	Active   bool
	Loop     bool
	Volume   float32 // 0..1
	Pitch    float32 // playback rate multiplier, 1 = unchanged
	Pan      float32 // -1 left .. 1 right
}
