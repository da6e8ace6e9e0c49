package renderer

// cubeVertices returns a unit cube centered on the origin as interleaved
// position/normal triangles with counter-clockwise front faces.
func cubeVertices() []float32 {
	type face struct {
		normal  [3]float32
		corners [4][3]float32
	}
	const h = 0.5
	faces := []face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	out := make([]float32, 0, 6*6*6)
	for _, f := range faces {
		for _, i := range [6]int{0, 1, 2, 0, 2, 3} {
			c := f.corners[i]
			out = append(out, c[0], c[1], c[2], f.normal[0], f.normal[1], f.normal[2])
		}
	}
	return out
}

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aModel0;
layout (location = 3) in vec4 aModel1;
layout (location = 4) in vec4 aModel2;
layout (location = 5) in vec4 aModel3;
layout (location = 6) in vec3 aColor;

uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec3 vColor;
out vec3 vWorld;

void main() {
    mat4 model = mat4(aModel0, aModel1, aModel2, aModel3);
    vec4 world = model * vec4(aPos, 1.0);
    vWorld = world.xyz;
    vNormal = normalize(mat3(model) * aNormal);
    vColor = aColor;
    gl_Position = uProjection * uView * world;
}
`

const fragmentShader = `
#version 410 core

in vec3 vNormal;
in vec3 vColor;
in vec3 vWorld;

uniform vec3 uEye;
uniform vec3 uLightDir;

out vec4 FragColor;

void main() {
    vec3 n = normalize(vNormal);
    vec3 l = normalize(-uLightDir);
    float diffuse = max(dot(n, l), 0.0);
    vec3 v = normalize(uEye - vWorld);
    float rim = pow(1.0 - max(dot(n, v), 0.0), 3.0) * 0.15;
    vec3 color = vColor * (0.35 + 0.65 * diffuse) + rim;
    FragColor = vec4(color, 1.0);
}
`
