package api

import (
	"context"
	"net/http"
	"net/url"

	"compassai/internal/domain"
)

// ToolQuery encodes listing parameters.
type ToolQuery interface {
	Values() url.Values
}

// toolResponse is the backend AiToolResponse.
type toolResponse struct {
	ID          domain.ToolID `json:"id"`
	Name        string        `json:"name"`
	SubTitle    string        `json:"subTitle"`
	Origin      string        `json:"origin"`
	URL         string        `json:"url"`
	Logo        string        `json:"logo"`
	Description string        `json:"description"`
	Categories  []string      `json:"categories"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags"`
}

func (r toolResponse) toTool() domain.Tool {
	categories := r.Categories
	if categories == nil {
		categories = []string{}
	}
	return domain.Tool{
		ID:         r.ID,
		Name:       r.Name,
		SubTitle:   r.SubTitle,
		Categories: categories,
		Category:   r.Category,
		Origin:     r.Origin,
		URL:        r.URL,
		Logo:       r.Logo,
		Long:       r.Description,
		Tags:       r.Tags,
	}
}

// GetTools issues one listing request.
func (c *Client) GetTools(ctx context.Context, query ToolQuery) (domain.Page[domain.Tool], error) {
	var values url.Values
	if query != nil {
		values = query.Values()
	}
	var page domain.Page[toolResponse]
	if err := c.getJSON(ctx, "get tools", "/tools", "/tools", values, &page); err != nil {
		return domain.Page[domain.Tool]{}, err
	}
	return domain.MapPage(page, toolResponse.toTool), nil
}

// GetTool fetches one tool.
func (c *Client) GetTool(ctx context.Context, id domain.ToolID) (domain.Tool, error) {
	var dto toolResponse
	if err := c.getJSON(ctx, "get tool", "/tools/{id}", "/tools/"+url.PathEscape(id.String()), nil, &dto); err != nil {
		return domain.Tool{}, err
	}
	return dto.toTool(), nil
}

// LikeStatus returns the caller's like state for a tool.
func (c *Client) LikeStatus(ctx context.Context, id domain.ToolID) (domain.LikeStatus, error) {
	var status domain.LikeStatus
	err := c.getJSON(ctx, "like status", "/tools/{id}/like/status", "/tools/"+url.PathEscape(id.String())+"/like/status", nil, &status)
	return status, err
}

// Like marks the tool as liked by the caller.
func (c *Client) Like(ctx context.Context, id domain.ToolID) (domain.LikeStatus, error) {
	var status domain.LikeStatus
	err := c.sendJSON(ctx, "like", http.MethodPost, "/tools/{id}/like", "/tools/"+url.PathEscape(id.String())+"/like", nil, &status)
	return status, err
}

// Unlike removes the caller's like.
func (c *Client) Unlike(ctx context.Context, id domain.ToolID) (domain.LikeStatus, error) {
	var status domain.LikeStatus
	err := c.sendJSON(ctx, "unlike", http.MethodDelete, "/tools/{id}/like", "/tools/"+url.PathEscape(id.String())+"/like", nil, &status)
	return status, err
}

// MyLikes lists the tools the caller liked.
func (c *Client) MyLikes(ctx context.Context) ([]domain.Tool, error) {
	var dtos []toolResponse
	if err := c.getJSON(ctx, "my likes", "/tools/likes/my", "/tools/likes/my", nil, &dtos); err != nil {
		return nil, err
	}
	tools := make([]domain.Tool, 0, len(dtos))
	for _, dto := range dtos {
		tools = append(tools, dto.toTool())
	}
	return tools, nil
}
