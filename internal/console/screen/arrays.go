package screen

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/coconsole/internal/console/upsert"
)

// FieldArray is an editable list of entries inside a form draft, such as the
// bank accounts of a CO account.
type FieldArray[D any] struct {
	Name  string
	Title string
	// Put binds an entry from the request, validates it and stores it at index
	// (-1 appends). It returns the entry's field errors.
	Put func(c *gin.Context, d *D, index int) upsert.FieldErrors
	// Remove deletes the entry at index once confirmed.
	Remove func(ctx context.Context, d *D, index int, confirm upsert.Confirmer) (upsert.Result, error)
}

// BindForm maps the posted form fields onto ptr by their `form` tags without
// running `binding` validation; forms validate through their Schema instead.
func BindForm(c *gin.Context, ptr any) error {
	if err := c.Request.ParseForm(); err != nil {
		return err
	}
	return binding.MapFormWithTag(ptr, c.Request.PostForm, "form")
}

// Array builds a FieldArray over the slice returned by items. Entries are
// bound from form fields and validated with their `validate` tags; policies
// run on every stored entry.
func Array[D any, E any](name, title string, v *validator.Validate, items func(d *D) *[]E, policies ...upsert.Policy[E]) FieldArray[D] {
	confirm := upsert.ConfirmOptions{
		Title:         "Remove " + title,
		Message:       "Are you sure you want to remove this entry?",
		PrimaryText:   "Remove",
		SecondaryText: "Cancel",
	}
	return FieldArray[D]{
		Name:  name,
		Title: title,
		Put: func(c *gin.Context, d *D, index int) upsert.FieldErrors {
			var e E
			if err := BindForm(c, &e); err != nil {
				return upsert.FieldErrors{"_": "Please check the entry format"}
			}
			if errs := upsert.ValidateStruct(v, e); errs != nil {
				return errs
			}
			list := items(d)
			out, err := upsert.Upsert(*list, index, e, policies...)
			if err != nil {
				return upsert.FieldErrors{"_": "Entry no longer exists"}
			}
			*list = out
			return nil
		},
		Remove: func(ctx context.Context, d *D, index int, c upsert.Confirmer) (upsert.Result, error) {
			list := items(d)
			out, res, err := upsert.Remove(ctx, *list, index, c, confirm)
			if res == upsert.Submitted {
				*list = out
			}
			return res, err
		},
	}
}
