package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cre8tlystudio/adminctl/internal/client/apitest"
	"github.com/cre8tlystudio/adminctl/internal/client/services"
)

func TestStats(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	ta.srv.Handle(http.MethodGet, "/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]any{"stats": map[string]any{
			"total_users": 12, "total_magnets": "40", "completed_magnets": 31, "awaiting_magnets": 9,
		}})
	})

	require.NoError(t, ta.Stats(context.Background(), nil))
	out := ta.out.String()
	assert.Regexp(t, `Total users\s+12`, out)
	assert.Regexp(t, `Total magnets\s+40`, out)
	assert.Regexp(t, `Awaiting magnets\s+9`, out)
}

func TestUsers_NewestFirst(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	ta.srv.Handle(http.MethodGet, "/admin/users", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]any{"users": []map[string]any{
			{"id": 1, "email": "old@x.io", "created_at": "2024-01-01T00:00:00Z"},
			{"id": 2, "email": "new@x.io", "created_at": "2025-01-01T00:00:00Z"},
		}})
	})

	require.NoError(t, ta.Users(context.Background(), nil))
	out := ta.out.String()
	assert.Less(t, strings.Index(out, "new@x.io"), strings.Index(out, "old@x.io"))
}

func TestReferral(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	ta.srv.Handle(http.MethodPost, "/admin/users/create-referral", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]string{"link": "https://cre8tlystudio.com/r/jane"})
	})

	require.NoError(t, ta.Referral(context.Background(), []string{"7", "jane"}))

	req, ok := ta.srv.Last(http.MethodPost, "/admin/users/create-referral")
	require.True(t, ok)
	assert.JSONEq(t, `{"employeeId":7,"slug":"jane"}`, string(req.Body))
	assert.Equal(t, "https://cre8tlystudio.com/r/jane\n", ta.out.String())
}

func TestDeliveries_Pages(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	ta.srv.Handle(http.MethodGet, "/admin/deliveries/admin-deliveries", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]any{
			"deliveries": []map[string]any{{
				"id": 4, "buyer_name": "Ann", "buyer_email": "ann@x.io", "product_name": "Guide",
				"delivered_at": "2025-03-01T10:00:00Z", "thank_you_sent": "1",
			}},
			"pagination": map[string]any{"totalPages": 3},
		})
	})

	require.NoError(t, ta.Deliveries(context.Background(), []string{"2"}))
	out := ta.out.String()
	assert.Regexp(t, `4\s+Ann\s+ann@x.io\s+Guide\s+.+\s+yes`, out)
	assert.Contains(t, out, "Page 2 of 3\nMore: deliveries 3\n")

	req, ok := ta.srv.Last(http.MethodGet, "/admin/deliveries/admin-deliveries")
	require.True(t, ok)
	assert.Equal(t, "limit=20&page=2", req.Query)

	require.EqualError(t, ta.Deliveries(context.Background(), []string{"0"}), `invalid page "0"`)
}

func TestReferrals_FilteredByEmployee(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	ta.srv.Handle(http.MethodGet, "/admin/referral/referrals", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]any{
			"referrals": []map[string]any{
				{"id": 1, "referred_email": "a@x.io", "referred_user_name": "Al", "created_at": "2025-01-01T00:00:00Z"},
			},
			"totalPages": 2,
		})
	})

	require.NoError(t, ta.Referrals(context.Background(), []string{"1", "7"}))
	out := ta.out.String()
	assert.Regexp(t, `1\s+Unknown\s+a@x.io\s+Al`, out)
	assert.Contains(t, out, "More: referrals 2 7\n")

	req, ok := ta.srv.Last(http.MethodGet, "/admin/referral/referrals")
	require.True(t, ok)
	assert.Equal(t, "employeeId=7&limit=20&page=1", req.Query)
}

func TestReferrals_LastPageHasNoHint(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	ta.srv.Handle(http.MethodGet, "/admin/referral/referrals", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]any{"referrals": []map[string]any{
			{"id": 1, "employee_name": "Jane", "referred_email": "a@x.io", "created_at": "2025-01-01T00:00:00Z"},
		}})
	})

	require.NoError(t, ta.Referrals(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "Page 1 of 1\n")
	assert.NotContains(t, ta.out.String(), "More:")
}

func TestEmployees(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	ta.srv.Handle(http.MethodGet, "/admin/referral/employees", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]any{"employees": []map[string]any{
			{"id": 7, "name": "Jane", "email": "jane@cre8tly.studio"},
		}})
	})

	require.NoError(t, ta.Employees(context.Background(), nil))
	assert.Regexp(t, `7\s+Jane\s+jane@cre8tly.studio`, ta.out.String())
}

func TestPost_RendersCommentTree(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	ta.srv.Handle(http.MethodGet, "/admin/community/post/5", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]any{
			"post": map[string]any{"id": 5, "title": "Launch week", "body": "Ship it.", "author": "Ann"},
			"comments": []map[string]any{
				{"id": 1, "parent_id": nil, "body": "first", "author": "Bob"},
				{"id": 2, "parent_id": 1, "body": "reply to first", "author": "Cy"},
				{"id": 3, "parent_id": 2, "body": "deeper", "author": "Bob"},
				{"id": 4, "parent_id": 0, "body": "second", "author": "Di"},
			},
		})
	})
	ta.srv.Handle(http.MethodPost, "/admin/community/post/5/mark-seen", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, ta.Post(context.Background(), []string{"5"}))

	out := ta.out.String()
	assert.Contains(t, out, "#5 Launch week\n")
	assert.Contains(t, out, "Comments (4)\n"+
		"  [1] Bob: first\n"+
		"    [2] Cy: reply to first\n"+
		"      [3] Bob: deeper\n"+
		"  [4] Di: second\n")
	assert.Equal(t, 1, ta.srv.Count(http.MethodPost, "/admin/community/post/5/mark-seen"))
}

func TestNewPost(t *testing.T) {
	ta := newTestApp(t).loggedIn(t).input("3\n  Hello world  \nline one\nline two\n\n")
	ta.srv.Handle(http.MethodPost, "/admin/community/post", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusCreated, map[string]bool{"success": true})
	})

	require.NoError(t, ta.NewPost(context.Background(), nil))

	req, ok := ta.srv.Last(http.MethodPost, "/admin/community/post")
	require.True(t, ok)
	assert.JSONEq(t, `{"topic_id":3,"title":"Hello world","body":"line one\nline two"}`, string(req.Body))
	assert.Contains(t, ta.out.String(), "Post created.")
}

func TestNewPost_EmptyBodyIsRejected(t *testing.T) {
	ta := newTestApp(t).loggedIn(t).input("3\nHello\n\n")

	err := ta.NewPost(context.Background(), nil)
	require.ErrorIs(t, err, services.ErrIncompletePost)
	assert.Empty(t, ta.srv.Requests())
}

func TestReplyToComment(t *testing.T) {
	ta := newTestApp(t).loggedIn(t).input("thanks!\n\n")
	ta.srv.Handle(http.MethodPost, "/admin/community/post/5/comment", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusCreated, map[string]bool{"success": true})
	})

	require.NoError(t, ta.Reply(context.Background(), []string{"5", "2"}))

	req, ok := ta.srv.Last(http.MethodPost, "/admin/community/post/5/comment")
	require.True(t, ok)
	assert.JSONEq(t, `{"body":"thanks!","parent_id":2}`, string(req.Body))
}

func TestDeletePost_AsksFirst(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	ta.srv.Handle(http.MethodDelete, "/admin/community/posts/5", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	ta.input("n\n")
	require.NoError(t, ta.DeletePost(context.Background(), []string{"5"}))
	assert.Contains(t, ta.out.String(), "Cancelled.")
	assert.Zero(t, ta.srv.Count(http.MethodDelete, "/admin/community/posts/5"))

	ta.input("yes\n")
	require.NoError(t, ta.DeletePost(context.Background(), []string{"5"}))
	assert.Contains(t, ta.out.String(), "Post deleted.")
	assert.Equal(t, 1, ta.srv.Count(http.MethodDelete, "/admin/community/posts/5"))
}

func TestMessages_Paging(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	ta.srv.Handle(http.MethodGet, "/admin/messages", func(w http.ResponseWriter, r *http.Request) {
		msgs := make([]map[string]any, 0, services.MessagesPageSize)
		if r.URL.Query().Get("offset") == "20" {
			for i := range services.MessagesPageSize {
				msgs = append(msgs, map[string]any{"id": i + 1, "title": fmt.Sprintf("t%d", i), "message": "m"})
			}
		}
		apitest.WriteJSON(w, http.StatusOK, msgs)
	})

	require.NoError(t, ta.Messages(context.Background(), []string{"1"}))
	assert.Contains(t, ta.out.String(), "More: messages 2")

	ta.out.Reset()
	require.NoError(t, ta.Messages(context.Background(), nil))
	assert.Equal(t, "No messages.\n", ta.out.String())

	require.EqualError(t, ta.Messages(context.Background(), []string{"-1"}), `invalid page "-1"`)
}

func TestAnnounce(t *testing.T) {
	ta := newTestApp(t).loggedIn(t).input("Maintenance\nBack at 5pm.\n\n")
	ta.srv.Handle(http.MethodPost, "/admin/messages", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusCreated, map[string]bool{"success": true})
	})

	require.NoError(t, ta.Announce(context.Background(), nil))

	req, ok := ta.srv.Last(http.MethodPost, "/admin/messages")
	require.True(t, ok)
	assert.JSONEq(t, `{"title":"Maintenance","message":"Back at 5pm."}`, string(req.Body))
}

func serveAnalytics(srv *apitest.Server) {
	panels := map[string]any{
		"visitors-over-time":   []map[string]any{{"date": "2026-10-01", "visitors": 3}},
		"visitors-by-location": []map[string]any{{"city": "Austin", "region": "TX", "country": "US", "total": 2}},
		"devices":              []map[string]any{{"device_type": "mobile", "total": 5}},
		"page-views":           []map[string]any{{"page": "/", "total": 8}},
		"unique-vs-returning":  map[string]any{"unique": 4, "returning": 1},
		"online":               map[string]any{"online": 2},
	}
	for panel, body := range panels {
		srv.Handle(http.MethodGet, "/admin/web-analytics/"+panel, func(w http.ResponseWriter, r *http.Request) {
			apitest.WriteJSON(w, http.StatusOK, body)
		})
	}
	srv.Handle(http.MethodGet, "/admin/web-analytics/geo", func(w http.ResponseWriter, r *http.Request) {
		apitest.WriteJSON(w, http.StatusOK, map[string]float64{"lat": 30.2672, "lng": -97.7431})
	})
}

func TestAnalytics(t *testing.T) {
	ta := newTestApp(t).loggedIn(t)
	serveAnalytics(ta.srv)

	require.NoError(t, ta.Analytics(context.Background(), nil))
	out := ta.out.String()
	assert.Regexp(t, `Online now\s+2`, out)
	assert.Regexp(t, `2026-10-01\s+3`, out)
	assert.Regexp(t, `mobile\s+5`, out)
	assert.Regexp(t, `Austin, TX, US\s+2\n`, out)
	assert.Zero(t, ta.srv.Count(http.MethodGet, "/admin/web-analytics/geo"))

	ta.out.Reset()
	require.NoError(t, ta.Analytics(context.Background(), []string{"geo"}))
	assert.Regexp(t, `Austin, TX, US\s+2\s+30\.2672\s+-97\.7431`, ta.out.String())
	assert.Equal(t, 1, ta.srv.Count(http.MethodGet, "/admin/web-analytics/geo"))

	require.EqualError(t, ta.Analytics(context.Background(), []string{"map"}), "usage: analytics [geo]")
}

func TestRootCmd(t *testing.T) {
	run := func(t *testing.T, ta *testApp, args ...string) (string, error) {
		t.Helper()
		root := NewRootCmd(ta.App)
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		err := root.ExecuteContext(context.Background())
		return out.String() + ta.out.String(), err
	}

	t.Run("version", func(t *testing.T) {
		out, err := run(t, newTestApp(t), "--version")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "adminctl "))
	})

	t.Run("build info", func(t *testing.T) {
		out, err := run(t, newTestApp(t), "version")
		require.NoError(t, err)
		assert.Contains(t, out, "Build version: ")
		assert.Contains(t, out, "Build commit: ")
	})

	t.Run("login required", func(t *testing.T) {
		_, err := run(t, newTestApp(t), "stats")
		require.ErrorIs(t, err, ErrLoginRequired)
	})

	t.Run("arity", func(t *testing.T) {
		_, err := run(t, newTestApp(t).loggedIn(t), "posts")
		require.Error(t, err)
	})

	t.Run("config flags are accepted", func(t *testing.T) {
		ta := newTestApp(t).loggedIn(t)
		ta.srv.Handle(http.MethodPost, "/admin/users/create-referral", func(w http.ResponseWriter, r *http.Request) {
			apitest.WriteJSON(w, http.StatusOK, map[string]string{"link": "https://x/r/1"})
		})
		out, err := run(t, ta, "referral", "1", "-l", "debug", "--timeout", "5s")
		require.NoError(t, err)
		assert.Contains(t, out, "https://x/r/1")
	})

	t.Run("alias", func(t *testing.T) {
		ta := newTestApp(t).loggedIn(t)
		ta.srv.Handle(http.MethodGet, "/admin/messages", func(w http.ResponseWriter, r *http.Request) {
			apitest.WriteJSON(w, http.StatusOK, []any{})
		})
		out, err := run(t, ta, "m")
		require.NoError(t, err)
		assert.Contains(t, out, "No messages.")
	})

	t.Run("shell", func(t *testing.T) {
		ta := newTestApp(t).input("status\nexit\n")
		out, err := run(t, ta, "shell")
		require.NoError(t, err)
		assert.Contains(t, out, "Not logged in.")
		assert.Contains(t, out, "logged out")
		assert.Contains(t, out, "Bye!")
	})
}
