// Package restapi surfaces the feed repository as a REST API served by gin.
package restapi

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sharedcode/feedbench"
	"github.com/sharedcode/feedbench/repository"
)

// TweetRequest is the body of a tweet post. A missing timestamp is stamped by the server.
// User ids are pointers so that id 0 passes the required check.
type TweetRequest struct {
	Author    *feedbench.UserID `json:"author" binding:"required"`
	Text      string            `json:"text"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
}

func (t TweetRequest) tweet() feedbench.Tweet {
	tw := feedbench.Tweet{Author: *t.Author, Text: t.Text}
	if t.Timestamp != nil {
		tw.Timestamp = *t.Timestamp
	}
	return tw
}

// FollowRequest is the body of a follow post.
type FollowRequest struct {
	Follower *feedbench.UserID `json:"follower" binding:"required"`
	Followee *feedbench.UserID `json:"followee" binding:"required"`
}

func (f FollowRequest) follow() feedbench.Follow {
	return feedbench.Follow{Follower: *f.Follower, Followee: *f.Followee}
}

// API binds the REST handlers to a repository.
type API struct {
	repo *repository.Repository
}

// NewAPI returns the handlers over repo.
func NewAPI(repo *repository.Repository) *API {
	return &API{repo: repo}
}

// Register adds the feed methods to registry.
func (a *API) Register(registry *Registry) error {
	methods := []RestMethod{
		{Verb: POST, Path: "/tweets", Handler: a.PostTweet},
		{Verb: POST, Path: "/tweets/batch", Handler: a.BatchPostTweets},
		{Verb: POST, Path: "/follows", Handler: a.CreateFollow},
		{Verb: POST, Path: "/follows/batch", Handler: a.BatchCreateFollows},
		{Verb: GET, Path: "/users/:id/timeline", Handler: a.GetTimeline},
		{Verb: GET, Path: "/users/:id/tweets", Handler: a.GetUserTweets},
		{Verb: GET, Path: "/users/:id/followers", Handler: a.GetFollowers},
		{Verb: GET, Path: "/users/:id/followees", Handler: a.GetFollowees},
	}
	for _, m := range methods {
		if err := registry.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// PostTweet godoc
// @Summary PostTweet stores one tweet
// @Schemes
// @Description PostTweet stores the tweet in its own transaction and fans it out to the author's followers.
// @Tags Tweets
// @Accept json
// @Produce json
// @Param			tweet	body		TweetRequest	true	"Tweet to post"
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Success 201 {object} map[string]any
// @Router /tweets [post]
// @Security Bearer
func (a *API) PostTweet(c *gin.Context) {
	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := a.repo.PostTweet(c.Request.Context(), req.tweet()); err != nil {
		failed(c, "posting tweet", err)
		return
	}
	c.IndentedJSON(http.StatusCreated, gin.H{"count": 1})
}

// BatchPostTweets godoc
// @Summary BatchPostTweets stores many tweets in one transaction
// @Schemes
// @Description BatchPostTweets stores the tweets with one backend batch. Either all of them are stored or none.
// @Tags Tweets
// @Accept json
// @Produce json
// @Param			tweets	body		[]TweetRequest	true	"Tweets to post"
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Success 201 {object} map[string]any
// @Router /tweets/batch [post]
// @Security Bearer
func (a *API) BatchPostTweets(c *gin.Context) {
	var req []TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tweets := make([]feedbench.Tweet, len(req))
	for i, r := range req {
		tweets[i] = r.tweet()
	}
	if err := a.repo.BatchPostTweets(c.Request.Context(), tweets); err != nil {
		failed(c, "posting tweets", err)
		return
	}
	c.IndentedJSON(http.StatusCreated, gin.H{"count": len(tweets)})
}

// CreateFollow godoc
// @Summary CreateFollow records a follow edge
// @Schemes
// @Description CreateFollow records follower -> followee. Repeating an edge has no effect.
// @Tags Follows
// @Accept json
// @Produce json
// @Param			follow	body		FollowRequest	true	"Edge to record"
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Success 201 {object} map[string]any
// @Router /follows [post]
// @Security Bearer
func (a *API) CreateFollow(c *gin.Context) {
	var req FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	f := req.follow()
	if err := a.repo.CreateFollow(c.Request.Context(), f.Follower, f.Followee); err != nil {
		failed(c, "creating follow", err)
		return
	}
	c.IndentedJSON(http.StatusCreated, gin.H{"count": 1})
}

// BatchCreateFollows godoc
// @Summary BatchCreateFollows records many follow edges in one transaction
// @Schemes
// @Description BatchCreateFollows records the edges with one backend batch.
// @Tags Follows
// @Accept json
// @Produce json
// @Param			follows	body		[]FollowRequest	true	"Edges to record"
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Success 201 {object} map[string]any
// @Router /follows/batch [post]
// @Security Bearer
func (a *API) BatchCreateFollows(c *gin.Context) {
	var req []FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	follows := make([]feedbench.Follow, len(req))
	for i, r := range req {
		follows[i] = r.follow()
	}
	if err := a.repo.BatchCreateFollows(c.Request.Context(), follows); err != nil {
		failed(c, "creating follows", err)
		return
	}
	c.IndentedJSON(http.StatusCreated, gin.H{"count": len(follows)})
}

// GetTimeline godoc
// @Summary GetTimeline returns a user's home timeline
// @Schemes
// @Description GetTimeline responds with the newest tweets of the users the user follows, newest first.
// @Tags Users
// @Accept json
// @Produce json
// @Param			id		path		int		true	"User id"
// @Param			limit	query		int		false	"Page size, defaults to 10"
// @Param			offset	query		int		false	"Tweets to skip"
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Success 200 {object} []feedbench.Tweet
// @Router /users/{id}/timeline [get]
// @Security Bearer
func (a *API) GetTimeline(c *gin.Context) {
	serveWindow(c, "fetching timeline", a.repo.GetTimeline)
}

// GetUserTweets godoc
// @Summary GetUserTweets returns the tweets a user authored
// @Schemes
// @Description GetUserTweets responds with the user's own tweets, newest first.
// @Tags Users
// @Accept json
// @Produce json
// @Param			id		path		int		true	"User id"
// @Param			limit	query		int		false	"Page size, defaults to 10"
// @Param			offset	query		int		false	"Tweets to skip"
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Success 200 {object} []feedbench.Tweet
// @Router /users/{id}/tweets [get]
// @Security Bearer
func (a *API) GetUserTweets(c *gin.Context) {
	serveWindow(c, "fetching user tweets", a.repo.GetUserTweets)
}

// GetFollowers godoc
// @Summary GetFollowers returns the ids following a user
// @Schemes
// @Tags Users
// @Produce json
// @Param			id		path		int		true	"User id"
// @Param			limit	query		int		false	"Page size, defaults to 10"
// @Param			offset	query		int		false	"Ids to skip"
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Success 200 {object} []int64
// @Router /users/{id}/followers [get]
// @Security Bearer
func (a *API) GetFollowers(c *gin.Context) {
	serveWindow(c, "fetching followers", a.repo.GetFollowers)
}

// GetFollowees godoc
// @Summary GetFollowees returns the ids a user follows
// @Schemes
// @Tags Users
// @Produce json
// @Param			id		path		int		true	"User id"
// @Param			limit	query		int		false	"Page size, defaults to 10"
// @Param			offset	query		int		false	"Ids to skip"
// @Failure 400 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Success 200 {object} []int64
// @Router /users/{id}/followees [get]
// @Security Bearer
func (a *API) GetFollowees(c *gin.Context) {
	serveWindow(c, "fetching followees", a.repo.GetFollowees)
}

func serveWindow[T any](c *gin.Context, what string, read func(ctx context.Context, user feedbench.UserID, limit, offset int64) ([]T, error)) {
	user, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, fmt.Errorf("user id %q is not an integer", c.Param("id")))
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		badRequest(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		badRequest(c, err)
		return
	}
	items, err := read(c.Request.Context(), feedbench.UserID(user), limit, offset)
	if err != nil {
		failed(c, what, err)
		return
	}
	c.IndentedJSON(http.StatusOK, items)
}

func queryInt(c *gin.Context, name string) (int64, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s=%q is not an integer", name, v)
	}
	return n, nil
}

func badRequest(c *gin.Context, err error) {
	c.IndentedJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

// failed maps caller mistakes to 400 and everything else to 500.
func failed(c *gin.Context, what string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrInvalidArgument),
		errors.Is(err, feedbench.ErrTypeMismatch),
		errors.Is(err, feedbench.ErrTxReadonly):
		status = http.StatusBadRequest
	default:
		log.Error(what+" failed", "error", err)
	}
	c.IndentedJSON(status, gin.H{"message": fmt.Sprintf("%s failed, error: %v", what, err)})
}
