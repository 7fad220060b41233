package book

// Book 图书实体(聚合根)
// 设计说明:
// 1. Title是对外的业务标识,更新/删除/查询都按书名定位
// 2. ID由存储层分配,不对外序列化
// 3. 更新是整体覆盖:除ID外的所有字段都被替换
type Book struct {
	ID        uint
	Title     string  // 书名
	Author    string  // 作者
	Year      int     // 出版年份
	Latitude  float64 // 纬度
	Longitude float64 // 经度
}

// NewBook 创建新图书(工厂方法),ID在持久化时回填
func NewBook(title, author string, year int, latitude, longitude float64) *Book {
	return &Book{
		Title:     title,
		Author:    author,
		Year:      year,
		Latitude:  latitude,
		Longitude: longitude,
	}
}

// Replace 用data覆盖除ID以外的全部字段
func (b *Book) Replace(data *Book) {
	b.Title = data.Title
	b.Author = data.Author
	b.Year = data.Year
	b.Latitude = data.Latitude
	b.Longitude = data.Longitude
}
