package model

// PathCollection は重複のない PathEntry の順序付き集合です。
// 並行アクセスからの保護は所有者が行います。
type PathCollection struct {
	entries []PathEntry
	index   map[string]int
}

// NewPathCollection は空の PathCollection を作成します
func NewPathCollection() *PathCollection {
	return &PathCollection{index: make(map[string]int)}
}

// Add は末尾にエントリを追加します。既に存在する場合は false を返します
func (c *PathCollection) Add(entry PathEntry) bool {
	if _, ok := c.index[entry.Path]; ok {
		return false
	}
	c.index[entry.Path] = len(c.entries)
	c.entries = append(c.entries, entry)
	return true
}

// Remove はパスが一致するエントリを削除します
func (c *PathCollection) Remove(path string) bool {
	i, ok := c.index[path]
	if !ok {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	delete(c.index, path)
	for j := i; j < len(c.entries); j++ {
		c.index[c.entries[j].Path] = j
	}
	return true
}

// Contains はパスが含まれているかどうかを返します
func (c *PathCollection) Contains(path string) bool {
	_, ok := c.index[path]
	return ok
}

// Clear はすべてのエントリを削除します
func (c *PathCollection) Clear() {
	c.entries = nil
	c.index = make(map[string]int)
}

// Len はエントリ数を返します
func (c *PathCollection) Len() int {
	return len(c.entries)
}

// Entries はエントリのコピーを挿入順で返します
func (c *PathCollection) Entries() []PathEntry {
	out := make([]PathEntry, len(c.entries))
	copy(out, c.entries)
	return out
}
