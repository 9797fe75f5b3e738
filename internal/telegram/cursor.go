package telegram

// Cursor is the next-offset marker into the bot's update stream. The zero
// value means "no filter, fetch everything available". It only ever moves
// forward.
type Cursor struct {
	next int
}

// Offset returns the offset to request next.
func (c Cursor) Offset() int { return c.next }

// Advance moves the cursor past updateID. Older ids never move it back.
func (c Cursor) Advance(updateID int) Cursor {
	if updateID+1 > c.next {
		c.next = updateID + 1
	}
	return c
}
