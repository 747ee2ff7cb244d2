package dto

type RegisterDTO struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,strongpwd"`
	Nickname string `json:"nickname" form:"nickname" validate:"required,alphanum,min=2,max=20"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`

	// ClientIP участвует в ключе лимитера попыток, не приходит из тела.
	ClientIP string `json:"-"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UpdatePasswordDTO struct {
	Password string `json:"password" validate:"required,strongpwd"`
}

type UpdateProfileDTO struct {
	Nickname string `json:"nickname" form:"nickname" validate:"omitempty,alphanum,min=2,max=20"`
}

type CreatePostDTO struct {
	Title   string `json:"title"   form:"title"   validate:"required,max=200"`
	Content string `json:"content" form:"content" validate:"required"`
}

type UpdatePostDTO struct {
	Title   string `json:"title"   form:"title"   validate:"required,max=200"`
	Content string `json:"content" form:"content" validate:"required"`
}

type CreateCommentDTO struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type UpdateCommentDTO struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	UserID       int64  `json:"userId"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}
