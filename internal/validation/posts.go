package validation

const (
	MsgTitleRequired   = "Title is required"
	MsgContentRequired = "Content is required"
	MsgAuthorRequired  = "Author is required"
	MsgUpdateRequired  = "Title and Content are required"
)

func ValidatePost(title, content, author string) FieldErrors {
	var errs FieldErrors

	if title == "" {
		errs = errs.add("title", MsgTitleRequired)
	}
	if content == "" {
		errs = errs.add("content", MsgContentRequired)
	}
	if author == "" {
		errs = errs.add("author", MsgAuthorRequired)
	}

	return errs
}

// ValidatePostUpdate reports a single form-level message, the edit form has no
// per-field slots.
func ValidatePostUpdate(title, content string) FieldErrors {
	if title == "" || content == "" {
		return FieldErrors{"form": MsgUpdateRequired}
	}
	return nil
}
