package uiconfig

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"compassai/internal/infra/jsoncodec"
)

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"httpOnly,omitempty"`
}

// PersistentJar is an http.CookieJar whose cookies survive process restarts.
// Cookies are kept per origin in the store's cookie bucket.
type PersistentJar struct {
	store *Store
	now   func() time.Time

	mu      sync.Mutex
	jar     *cookiejar.Jar
	lastErr error
}

// CookieJar returns a jar preloaded with the persisted cookies.
func (s *Store) CookieJar() (*PersistentJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	p := &PersistentJar{store: s, jar: jar, now: time.Now}
	records, err := p.load()
	if err != nil {
		return nil, err
	}
	for origin, cookies := range records {
		u, err := url.Parse(origin + "/")
		if err != nil {
			continue
		}
		jar.SetCookies(u, p.live(cookies))
	}
	return p, nil
}

func (p *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jar.Cookies(u)
}

func (p *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jar.SetCookies(u, cookies)
	if err := p.persist(originOf(u), cookies); err != nil {
		p.lastErr = err
	}
}

// Err returns the last persistence failure, if any.
func (p *PersistentJar) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Clear forgets every cookie, in memory and on disk.
func (p *PersistentJar) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}
	p.jar = jar
	return p.store.update(func(tx *bolt.Tx) error {
		bucket, err := childBucket(tx, cookiesBucketName)
		if err != nil {
			return err
		}
		return clearBucket(bucket)
	})
}

func (p *PersistentJar) persist(origin string, cookies []*http.Cookie) error {
	if origin == "" || len(cookies) == 0 {
		return nil
	}
	return p.store.update(func(tx *bolt.Tx) error {
		bucket, err := childBucket(tx, cookiesBucketName)
		if err != nil {
			return err
		}
		current := map[string]storedCookie{}
		if raw := bucket.Get([]byte(origin)); raw != nil {
			if err := jsoncodec.Unmarshal(raw, &current); err != nil {
				current = map[string]storedCookie{}
			}
		}
		now := p.now()
		for _, cookie := range cookies {
			if cookie == nil || cookie.Name == "" {
				continue
			}
			if cookie.MaxAge < 0 || (!cookie.Expires.IsZero() && !cookie.Expires.After(now)) {
				delete(current, cookie.Name)
				continue
			}
			stored := storedCookie{
				Name:     cookie.Name,
				Value:    cookie.Value,
				Path:     cookie.Path,
				Domain:   cookie.Domain,
				Expires:  cookie.Expires,
				Secure:   cookie.Secure,
				HTTPOnly: cookie.HttpOnly,
			}
			if cookie.MaxAge > 0 {
				stored.Expires = now.Add(time.Duration(cookie.MaxAge) * time.Second)
			}
			current[cookie.Name] = stored
		}
		if len(current) == 0 {
			return bucket.Delete([]byte(origin))
		}
		data, err := jsoncodec.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode cookies: %w", err)
		}
		return bucket.Put([]byte(origin), data)
	})
}

func (p *PersistentJar) load() (map[string]map[string]storedCookie, error) {
	records := map[string]map[string]storedCookie{}
	err := p.store.view(func(tx *bolt.Tx) error {
		bucket, err := childBucket(tx, cookiesBucketName)
		if err != nil {
			return err
		}
		return bucket.ForEach(func(key, value []byte) error {
			var cookies map[string]storedCookie
			if err := jsoncodec.Unmarshal(value, &cookies); err != nil {
				return nil
			}
			records[string(key)] = cookies
			return nil
		})
	})
	return records, err
}

func (p *PersistentJar) live(stored map[string]storedCookie) []*http.Cookie {
	now := p.now()
	out := make([]*http.Cookie, 0, len(stored))
	for _, cookie := range stored {
		if !cookie.Expires.IsZero() && !cookie.Expires.After(now) {
			continue
		}
		out = append(out, &http.Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     cookie.Path,
			Domain:   cookie.Domain,
			Expires:  cookie.Expires,
			Secure:   cookie.Secure,
			HttpOnly: cookie.HTTPOnly,
		})
	}
	return out
}

func originOf(u *url.URL) string {
	if u == nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

var _ http.CookieJar = (*PersistentJar)(nil)
