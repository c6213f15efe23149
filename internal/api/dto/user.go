package dto

// RegisterDTO 注册
type RegisterDTO struct {
	Username     string `json:"username" binding:"required,min=3,max=20" validate:"alphanum"`
	Password     string `json:"password" binding:"required,min=6,max=32"`
	Nickname     string `json:"nickname" binding:"required,min=1,max=30"`
	Denomination string `json:"denomination" binding:"max=100"`
}

// CredentialDTO 登录
type CredentialDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserDTO 用户
type UserDTO struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	Nickname     string `json:"nickname"`
	Denomination string `json:"denomination"`
	CreatedAt    string `json:"createdAt"`
}

// LoginDTO 登录结果，token 供非浏览器客户端使用
type LoginDTO struct {
	User  *UserDTO `json:"user"`
	Token string   `json:"token"`
}
