package httpapi

import (
	"time"

	"github.com/dmitrijs2005/chyrp/internal/server/models"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userCreateRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userUpdateRequest struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Username: u.UserName, Email: u.Email}
}

type mediaDTO struct {
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
}

type postRequest struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Media   []mediaDTO `json:"media"`
}

type postResponse struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CreateTime time.Time  `json:"createtime"`
	UserID     int64      `json:"user_id"`
	Media      []mediaDTO `json:"media"`
}

func toPostResponse(p *models.Post) postResponse {
	out := postResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		CreateTime: p.CreateTime,
		UserID:     p.UserID,
		Media:      make([]mediaDTO, len(p.Media)),
	}
	for i, m := range p.Media {
		out.Media[i] = mediaDTO{URL: m.URL, MediaType: m.MediaType}
	}
	return out
}

type uploadResponse struct {
	FileURL string `json:"file_url"`
}
