package controllers

func BoolPointer(b bool) *bool {
	return &b
}
