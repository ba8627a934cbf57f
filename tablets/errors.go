package tablets

import "errors"

// ErrNothingToRender - none of the requested items produced a page
// (all donations, unknown categories, or no items at all).
var ErrNothingToRender = errors.New("tablets: nothing to render")
