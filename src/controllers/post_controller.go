package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/linkup-backend/src/middleware"
	"github.com/theleywin/linkup-backend/src/services"
)

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// GetAll returns every post, newest first. Posts are public reads.
func (ctrl *PostController) GetAll(c *fiber.Ctx) error {
	posts, err := ctrl.posts.ListAll(c.Context())
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"count": len(posts),
		"posts": posts,
	})
}

// Feed returns posts from the caller and their connections.
func (ctrl *PostController) Feed(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	posts, err := ctrl.posts.Feed(c.Context(), user)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"count": len(posts),
		"posts": posts,
	})
}

// Get returns a single post.
func (ctrl *PostController) Get(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID format")
	}

	post, err := ctrl.posts.Get(c.Context(), postID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"post": post,
	})
}

// Create makes a new post for the caller. Accepts a JSON body or a multipart
// form with an optional "image" file (image or mp4 video).
func (ctrl *PostController) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	content := c.FormValue("content")
	if content == "" {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err == nil {
			content = req.Content
		}
	}

	media, closer, err := formUpload(c, "image")
	if err != nil {
		return fail(c, err)
	}
	if closer != nil {
		defer closer.Close()
	}

	post, err := ctrl.posts.Create(c.Context(), user, content, media)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusCreated, fiber.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

// Update replaces the post's content and optionally its media.
func (ctrl *PostController) Update(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID format")
	}

	user := middleware.CurrentUser(c)

	content := c.FormValue("content")
	if content == "" {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err == nil {
			content = req.Content
		}
	}

	media, closer, err := formUpload(c, "image")
	if err != nil {
		return fail(c, err)
	}
	if closer != nil {
		defer closer.Close()
	}

	post, err := ctrl.posts.Update(c.Context(), postID, user, content, media)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// Delete removes the caller's post.
func (ctrl *PostController) Delete(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID format")
	}

	user := middleware.CurrentUser(c)
	if err := ctrl.posts.Delete(c.Context(), postID, user); err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Post deleted successfully",
	})
}

// Like toggles the caller's like on a post.
func (ctrl *PostController) Like(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID format")
	}

	user := middleware.CurrentUser(c)
	post, liked, err := ctrl.posts.ToggleLike(c.Context(), postID, user)
	if err != nil {
		return fail(c, err)
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	return ok(c, fiber.StatusOK, fiber.Map{
		"message": message,
		"post":    post,
	})
}

type AddCommentRequest struct {
	Text string `json:"text"`
}

// AddComment appends a comment to a post.
func (ctrl *PostController) AddComment(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID format")
	}

	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user := middleware.CurrentUser(c)
	post, err := ctrl.posts.AddComment(c.Context(), postID, user, req.Text)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Comment added successfully",
		"post":    post,
	})
}

// DeleteComment removes the caller's own comment from a post.
func (ctrl *PostController) DeleteComment(c *fiber.Ctx) error {
	postID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post ID format")
	}
	commentID, err := primitive.ObjectIDFromHex(c.Params("commentId"))
	if err != nil {
		return badRequest(c, "Invalid comment ID format")
	}

	user := middleware.CurrentUser(c)
	post, err := ctrl.posts.DeleteComment(c.Context(), postID, commentID, user)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Comment deleted successfully",
		"post":    post,
	})
}
