package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestCache_GetSetDelete(t *testing.T) {
	c := NewCache[string, []byte]()

	if _, ok := c.Get("kimchi-post-draft"); ok {
		t.Fatal("Expected empty cache to miss")
	}

	c.Set("kimchi-post-draft", []byte(`{"draft":null}`))
	got, ok := c.Get("kimchi-post-draft")
	if !ok {
		t.Fatal("Expected key to exist")
	}
	if string(got) != `{"draft":null}` {
		t.Errorf("Expected stored value, got %q", got)
	}

	c.Set("kimchi-post-draft", []byte("v2"))
	if got, _ := c.Get("kimchi-post-draft"); string(got) != "v2" {
		t.Errorf("Expected overwrite, got %q", got)
	}

	c.Delete("kimchi-post-draft")
	if _, ok := c.Get("kimchi-post-draft"); ok {
		t.Error("Expected key to be deleted")
	}

	// Deleting a missing key must not panic
	c.Delete("missing")
}

func TestCache_Len(t *testing.T) {
	c := NewCache[int, string]()
	c.Set(1, "one")
	c.Set(2, "two")
	c.Set(2, "deux")

	if c.Len() != 2 {
		t.Errorf("Expected 2 items, got %d", c.Len())
	}
}

func TestCache_Concurrency(t *testing.T) {
	c := NewCache[string, int]()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k-%d-%d", n, j)
				c.Set(key, j)
				c.Get(key)
				if j%10 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 20*90 {
		t.Errorf("Expected %d items, got %d", 20*90, c.Len())
	}
}
