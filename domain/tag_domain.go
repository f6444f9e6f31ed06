package domain

import "fmt"

var (
	MessageSuccessGetTags = "success get tags"
	MessageSuccessGetTag  = "success get tag"
	MessageSuccessAddTag  = "tag added successfully"
	MessageFailedGetTags  = "failed to get tags"
	MessageFailedGetTag   = "failed to get tag"
	MessageFailedAddTag   = "failed to add tag"

	ErrTagNotFound      = fmt.Errorf("tag %w", ErrNotFound)
	ErrTagAlreadyExists = fmt.Errorf("tag with this name, color or slug %w", ErrAlreadyExists)
)

type (
	AddTagRequest struct {
		Name  string `json:"name" validate:"required,max=200"`
		Color string `json:"color" validate:"required,hexcolor,max=7"`
		Slug  string `json:"slug" validate:"required,slug,max=200"`
	}

	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}
)
